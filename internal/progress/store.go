package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"svw.info/cardle/internal/domain"
	"svw.info/cardle/internal/platform/logger"
	"svw.info/cardle/internal/ports"
)

// State of one day's game.
type State int

const (
	Unstarted State = iota
	InProgress
	Solved
)

func (s State) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case Solved:
		return "solved"
	}
	return "unstarted"
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Outcome of a Guess call.
type Outcome int

const (
	OutcomeAccepted Outcome = iota
	OutcomeAlreadyGuessed
	OutcomeSolved
	// OutcomeClosed means the day was already solved; nothing changed.
	OutcomeClosed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAlreadyGuessed:
		return "already_guessed"
	case OutcomeSolved:
		return "solved"
	case OutcomeClosed:
		return "closed"
	}
	return "accepted"
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Listener receives a snapshot after every change.
type Listener func(ctx context.Context, b Blob)

// LoadReport describes what LoadAll found.
type LoadReport struct {
	// FromVersion is the schema version the stored data started at.
	FromVersion string
	Migrated    bool
	// Corrupt is set when stored data could not be decoded and was dropped.
	Corrupt      bool
	Found        bool
	Days         int
	UnknownCodes []string
}

// DayStatus summarises one played day.
type DayStatus struct {
	Day     domain.Day `json:"day"`
	State   State      `json:"state"`
	Guesses int        `json:"guesses"`
}

// Store owns the per-day progress of one mode.
type Store struct {
	mode  Mode
	sel   ports.Selector
	blobs ports.BlobStore
	log   *logger.Logger

	// writeMu orders snapshots with their writes so an older snapshot
	// never lands after a newer one.
	writeMu sync.Mutex

	mu        sync.Mutex
	cat       *domain.Catalog
	days      map[domain.Day]DayEntry
	listeners []Listener
	held      int
	pending   bool
}

// NewStore returns an empty store with autosave registered.
func NewStore(mode Mode, cat *domain.Catalog, blobs ports.BlobStore, sel ports.Selector, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	s := &Store{
		mode:  mode,
		sel:   sel,
		blobs: blobs,
		log:   log.With("mode", mode.Name),
		cat:   cat,
		days:  map[domain.Day]DayEntry{},
	}
	s.listeners = append(s.listeners, s.autosave)
	return s
}

func (s *Store) Mode() Mode { return s.mode }

// SetCatalog swaps the catalog. Pinned targets are kept as codes.
func (s *Store) SetCatalog(cat *domain.Catalog) {
	s.mu.Lock()
	s.cat = cat
	s.mu.Unlock()
}

func (s *Store) Catalog() *domain.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cat
}

// OnChange registers l to run after every mutation.
func (s *Store) OnChange(l Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

// Hold defers change notification until the returned release is called.
// Holds nest; listeners run once, on the last release, if anything changed.
func (s *Store) Hold() (release func(ctx context.Context)) {
	s.mu.Lock()
	s.held++
	s.mu.Unlock()
	var once sync.Once
	return func(ctx context.Context) {
		once.Do(func() {
			s.mu.Lock()
			s.held--
			fire := s.held == 0 && s.pending
			if fire {
				s.pending = false
			}
			s.mu.Unlock()
			if fire {
				s.notify(ctx)
			}
		})
	}
}

// Target returns the pinned target, or derives it from the seed without
// pinning.
func (s *Store) Target(day domain.Day) (domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.targetLocked(day)
}

func (s *Store) targetLocked(day domain.Day) (domain.Card, error) {
	if s.cat.Len() == 0 {
		return domain.Card{}, domain.ErrCatalogNotReady
	}
	e := s.days[day]
	if e.Target != "" {
		return s.cat.Resolve(e.Target), nil
	}
	return s.mode.deriveTarget(s.sel, s.cat, day, e.Guesses)
}

// GuessCodes returns the guessed codes of day in order.
func (s *Store) GuessCodes(day domain.Day) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.days[day].Guesses)
}

// Guesses resolves the guessed cards of day. Codes the catalog no longer
// knows come back as the missing-card placeholder.
func (s *Store) Guesses(day domain.Day) []domain.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	codes := s.days[day].Guesses
	out := make([]domain.Card, len(codes))
	for i, c := range codes {
		out[i] = s.cat.Resolve(c)
	}
	return out
}

// Round pairs a guess with the target it was made against.
type Round struct {
	Guess  domain.Card
	Target domain.Card
}

// Rounds replays day's guesses. In rerolling modes each guess faced a
// different target; otherwise every round shares the pinned one.
func (s *Store) Rounds(day domain.Day) ([]Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cat.Len() == 0 {
		return nil, domain.ErrCatalogNotReady
	}
	codes := s.days[day].Guesses
	out := make([]Round, len(codes))
	if !s.mode.RerollEachGuess {
		target, err := s.targetLocked(day)
		if err != nil {
			return nil, err
		}
		for i, c := range codes {
			out[i] = Round{Guess: s.cat.Resolve(c), Target: target}
		}
		return out, nil
	}
	targets := s.days[day].Targets
	for i, c := range codes {
		if i < len(targets) && targets[i] != "" {
			out[i] = Round{Guess: s.cat.Resolve(c), Target: s.cat.Resolve(targets[i])}
			continue
		}
		target, err := s.mode.deriveTarget(s.sel, s.cat, day, codes[:i])
		if err != nil {
			return nil, err
		}
		out[i] = Round{Guess: s.cat.Resolve(c), Target: target}
	}
	return out, nil
}

// State reports where day's game stands.
func (s *Store) State(day domain.Day) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked(day)
}

func (s *Store) stateLocked(day domain.Day) State {
	e := s.days[day]
	if len(e.Guesses) == 0 {
		return Unstarted
	}
	if s.solved(e) {
		return Solved
	}
	return InProgress
}

func (s *Store) solved(e DayEntry) bool {
	if e.Target == "" || len(e.Guesses) == 0 {
		return false
	}
	if s.mode.RerollEachGuess {
		return e.Guesses[len(e.Guesses)-1] == e.Target
	}
	return slices.Contains(e.Guesses, e.Target)
}

// Guess records card as the next guess of day. The first guess pins the
// target; rerolling modes pin a fresh target after every miss.
func (s *Store) Guess(ctx context.Context, day domain.Day, card domain.Card) (Outcome, error) {
	s.mu.Lock()
	if s.cat.Len() == 0 {
		s.mu.Unlock()
		return 0, domain.ErrCatalogNotReady
	}
	if _, ok := s.cat.Lookup(card.Code); !ok || card.Missing {
		s.mu.Unlock()
		return 0, fmt.Errorf("%w: %s", domain.ErrUnknownCard, card.Code)
	}
	e := s.days[day]
	if s.solved(e) {
		s.mu.Unlock()
		s.log.Info("guess ignored, day already solved", "day", day, "code", card.Code)
		return OutcomeClosed, nil
	}
	if slices.Contains(e.Guesses, card.Code) {
		s.mu.Unlock()
		return OutcomeAlreadyGuessed, nil
	}
	target, err := s.targetLocked(day)
	if err != nil {
		s.mu.Unlock()
		return 0, err
	}
	prev := e
	e = DayEntry{Target: target.Code, Guesses: append(slices.Clone(prev.Guesses), card.Code)}
	if s.mode.RerollEachGuess {
		e.Targets = append(slices.Clone(prev.Targets), target.Code)
	}
	if s.mode.RerollEachGuess && card.Code != target.Code {
		guessed := make(map[string]bool, len(e.Guesses))
		for _, g := range e.Guesses {
			guessed[g] = true
		}
		next, err := s.mode.pick(s.sel, s.cat, day, len(e.Guesses), guessed)
		if err != nil {
			s.mu.Unlock()
			return 0, err
		}
		e.Target = next.Code
	}
	s.days[day] = e
	out := OutcomeAccepted
	if card.Code == target.Code {
		out = OutcomeSolved
	}
	s.mu.Unlock()

	s.log.Debug("guess recorded", "day", day, "code", card.Code, "outcome", out)
	s.changed(ctx)
	return out, nil
}

// Reset clears day's guesses and drops the pin so the target is derived
// from the seed again. The day itself stays in the progress map.
func (s *Store) Reset(ctx context.Context, day domain.Day) {
	s.mu.Lock()
	s.days[day] = DayEntry{Guesses: []string{}}
	s.mu.Unlock()
	s.log.Info("day reset", "day", day)
	s.changed(ctx)
}

// Days lists every day with progress, oldest first.
func (s *Store) Days() []DayStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]DayStatus, 0, len(s.days))
	for d, e := range s.days {
		out = append(out, DayStatus{Day: d, State: s.stateLocked(d), Guesses: len(e.Guesses)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

// SolvedDays lists the solved days, oldest first.
func (s *Store) SolvedDays() []domain.Day {
	var out []domain.Day
	for _, d := range s.Days() {
		if d.State == Solved {
			out = append(out, d.Day)
		}
	}
	return out
}

// Snapshot returns a deep copy of the progress in its persisted shape.
func (s *Store) Snapshot() Blob {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := Blob{Version: CurrentVersion, Days: make(map[domain.Day]DayEntry, len(s.days))}
	for d, e := range s.days {
		guesses := slices.Clone(e.Guesses)
		if guesses == nil {
			guesses = []string{}
		}
		b.Days[d] = DayEntry{Target: e.Target, Guesses: guesses, Targets: slices.Clone(e.Targets)}
	}
	return b
}

// Save writes the whole progress map, replacing what was stored.
func (s *Store) Save(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.write(ctx, s.Snapshot())
}

func (s *Store) write(ctx context.Context, b Blob) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	if err := s.blobs.Save(ctx, s.mode.StorageKey(), data); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// LoadAll reads stored progress, migrates it to the current schema and stamps
// the current version right away. Undecodable data is dropped and reported.
func (s *Store) LoadAll(ctx context.Context) (LoadReport, error) {
	cat := s.Catalog()
	if cat.Len() == 0 {
		return LoadReport{}, domain.ErrCatalogNotReady
	}
	var rep LoadReport
	days := map[domain.Day]DayEntry{}

	raw, err := s.blobs.Load(ctx, s.mode.StorageKey())
	switch {
	case errors.Is(err, ports.ErrNotFound):
	case err != nil:
		return LoadReport{}, fmt.Errorf("load progress: %w", err)
	default:
		rep.Found = true
		b, from, err := migrate(migrationEnv{mode: s.mode, sel: s.sel, cat: cat}, raw)
		rep.FromVersion = from
		if err != nil {
			rep.Corrupt = true
			s.log.Warn("stored progress unreadable, starting fresh", "error", err)
			break
		}
		if from != CurrentVersion {
			rep.Migrated = true
			s.log.Info("progress migrated", "from", from, "to", CurrentVersion)
		}
		days = b.Days
	}
	if s.mode.RerollEachGuess {
		if err := backfillTargets(s.mode, s.sel, cat, days); err != nil {
			return LoadReport{}, err
		}
	}

	seen := map[string]bool{}
	for d, e := range days {
		for _, code := range append([]string{e.Target}, e.Guesses...) {
			if code == "" || seen[code] {
				continue
			}
			if _, ok := cat.Lookup(code); !ok {
				seen[code] = true
				rep.UnknownCodes = append(rep.UnknownCodes, code)
				s.log.Warn("unknown card code in progress", "day", d, "code", code)
			}
		}
	}
	sort.Strings(rep.UnknownCodes)
	rep.Days = len(days)

	s.mu.Lock()
	s.days = days
	s.mu.Unlock()

	if err := s.Save(ctx); err != nil {
		return rep, err
	}
	return rep, nil
}

func (s *Store) changed(ctx context.Context) {
	s.mu.Lock()
	if s.held > 0 {
		s.pending = true
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	s.notify(ctx)
}

// notify runs listeners while holding writeMu, so listeners see snapshots
// in order and must not call Save.
func (s *Store) notify(ctx context.Context) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	ls := slices.Clone(s.listeners)
	s.mu.Unlock()
	b := s.Snapshot()
	for _, l := range ls {
		l(ctx, b)
	}
}

// autosave writes the snapshot unless there is nothing to write.
func (s *Store) autosave(ctx context.Context, b Blob) {
	if len(b.Days) == 0 {
		return
	}
	if err := s.write(ctx, b); err != nil {
		s.log.Error("autosave failed", "error", err)
	}
}
