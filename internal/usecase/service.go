package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"svw.info/cardle/internal/domain"
	"svw.info/cardle/internal/filter"
	"svw.info/cardle/internal/hint"
	"svw.info/cardle/internal/observability"
	"svw.info/cardle/internal/platform/logger"
	"svw.info/cardle/internal/ports"
	"svw.info/cardle/internal/progress"
	"svw.info/cardle/internal/selector"
	"svw.info/cardle/internal/share"
)

var (
	errNotConfigured = errors.New("usecase dependency not configured")

	// ErrFilterLocked is returned when a filter would reveal more than the
	// guesses so far have.
	ErrFilterLocked = errors.New("filter not unlocked yet")
	// ErrNothingToShare is returned for days without guesses.
	ErrNothingToShare = errors.New("no guesses to share")
)

// Options carries the presentation settings of the service.
type Options struct {
	Title         string
	ShareBaseURL  string
	SearchLimit   int
	MinSearch     int
	FindDayWindow int
}

// Service is the game facade used by the CLI and the HTTP adapter.
type Service struct {
	Selector ports.Selector
	Prefs    ports.Preferences
	Metrics  *observability.Metrics
	Log      *logger.Logger

	opts   Options
	codec  share.Codec
	engine filter.Engine
	blobs  ports.BlobStore
	stores map[string]*progress.Store

	mu      sync.Mutex
	cat     *domain.Catalog
	filters map[filterKey]*filter.Set
}

type filterKey struct {
	mode string
	day  domain.Day
}

type staticPrefs struct{}

func (staticPrefs) German() bool { return false }

func NewService(cat *domain.Catalog, sel ports.Selector, blobs ports.BlobStore, prefs ports.Preferences, opts Options, log *logger.Logger, m *observability.Metrics) *Service {
	if log == nil {
		log = logger.Nop()
	}
	if prefs == nil {
		prefs = staticPrefs{}
	}
	if opts.FindDayWindow <= 0 {
		opts.FindDayWindow = 3650
	}
	u := &Service{
		Selector: sel,
		Prefs:    prefs,
		Metrics:  m,
		Log:      log,
		opts:     opts,
		codec:    share.Codec{BaseURL: opts.ShareBaseURL},
		engine:   filter.Engine{Limit: opts.SearchLimit, MinQueryLength: opts.MinSearch},
		blobs:    blobs,
		stores:   map[string]*progress.Store{},
		cat:      cat,
		filters:  map[filterKey]*filter.Set{},
	}
	if blobs != nil && sel != nil {
		for _, mode := range progress.Modes() {
			u.stores[mode.Name] = progress.NewStore(mode, cat, blobs, sel, log)
		}
	}
	if m != nil {
		m.CatalogCards.Set(float64(cat.Len()))
	}
	return u
}

func (u *Service) store(mode progress.Mode) (*progress.Store, error) {
	st, ok := u.stores[mode.Name]
	if !ok {
		return nil, errNotConfigured
	}
	return st, nil
}

func (u *Service) catalog() (*domain.Catalog, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.cat.Len() == 0 {
		return nil, domain.ErrCatalogNotReady
	}
	return u.cat, nil
}

func (u *Service) german() bool { return u.Prefs.German() }

// SetCatalog swaps the catalog for every mode.
func (u *Service) SetCatalog(cat *domain.Catalog) {
	u.mu.Lock()
	u.cat = cat
	u.mu.Unlock()
	for _, st := range u.stores {
		st.SetCatalog(cat)
	}
	if u.Metrics != nil {
		u.Metrics.CatalogCards.Set(float64(cat.Len()))
	}
}

// LoadAll restores the stored progress of every mode.
func (u *Service) LoadAll(ctx context.Context) (map[string]progress.LoadReport, error) {
	if len(u.stores) == 0 {
		return nil, errNotConfigured
	}
	out := make(map[string]progress.LoadReport, len(u.stores))
	for _, mode := range progress.Modes() {
		rep, err := u.stores[mode.Name].LoadAll(ctx)
		if err != nil {
			return out, fmt.Errorf("%s: %w", mode.Name, err)
		}
		out[mode.Name] = rep
	}
	return out, nil
}

// Row is one guess with its feedback.
type Row struct {
	Card     domain.Card   `json:"card"`
	Feedback hint.Feedback `json:"feedback"`
}

// Board is the visible state of one day.
type Board struct {
	Mode    string             `json:"mode"`
	Day     domain.Day         `json:"day"`
	State   progress.State     `json:"state"`
	Rows    []Row              `json:"rows"`
	Filters []filter.Criterion `json:"filters"`
	// Target is only revealed once the day is solved.
	Target *domain.Card `json:"target,omitempty"`
}

// Target returns the card to guess for day.
func (u *Service) Target(mode progress.Mode, day domain.Day) (domain.Card, error) {
	st, err := u.store(mode)
	if err != nil {
		return domain.Card{}, err
	}
	return st.Target(day)
}

func (u *Service) Board(mode progress.Mode, day domain.Day) (Board, error) {
	st, err := u.store(mode)
	if err != nil {
		return Board{}, err
	}
	rounds, err := st.Rounds(day)
	if err != nil {
		return Board{}, err
	}
	german := u.german()
	b := Board{
		Mode:    mode.Name,
		Day:     day,
		State:   st.State(day),
		Rows:    make([]Row, len(rounds)),
		Filters: u.Filters(mode, day),
	}
	for i, r := range rounds {
		b.Rows[i] = Row{Card: r.Guess, Feedback: hint.Diff(r.Target, r.Guess, german)}
	}
	if b.State == progress.Solved {
		t, err := st.Target(day)
		if err != nil {
			return Board{}, err
		}
		b.Target = &t
	}
	return b, nil
}

// GuessResult reports what a guess did.
type GuessResult struct {
	Outcome      progress.Outcome `json:"outcome"`
	State        progress.State   `json:"state"`
	Row          *Row             `json:"row,omitempty"`
	Guesses      int              `json:"guesses"`
	FiltersReset bool             `json:"filters_reset"`
}

// Guess records code for day. The guess is appended and the solved state
// settled before filters are reset, and only then is progress persisted.
func (u *Service) Guess(ctx context.Context, mode progress.Mode, day domain.Day, code string) (GuessResult, error) {
	st, err := u.store(mode)
	if err != nil {
		return GuessResult{}, err
	}
	cat, err := u.catalog()
	if err != nil {
		return GuessResult{}, err
	}
	card, ok := cat.Lookup(code)
	if !ok {
		return GuessResult{}, fmt.Errorf("%w: %s", domain.ErrUnknownCard, code)
	}
	target, err := st.Target(day)
	if err != nil {
		return GuessResult{}, err
	}

	release := st.Hold()
	defer release(ctx)

	out, err := st.Guess(ctx, day, card)
	if err != nil {
		return GuessResult{}, err
	}
	res := GuessResult{Outcome: out, State: st.State(day), Guesses: len(st.GuessCodes(day))}
	if out == progress.OutcomeAccepted || out == progress.OutcomeSolved {
		fb := hint.Diff(target, card, u.german())
		res.Row = &Row{Card: card, Feedback: fb}
		if out == progress.OutcomeSolved || mode.ResetFiltersEachGuess {
			u.ClearFilters(mode, day)
			res.FiltersReset = true
		}
	}
	release(ctx)

	u.Metrics.ObserveGuess(mode.Name, out.String(), out == progress.OutcomeSolved, res.Guesses)
	u.Log.Debug("guess", "mode", mode.Name, "day", day, "code", code, "outcome", out)
	return res, nil
}

func (u *Service) filterSet(mode progress.Mode, day domain.Day) *filter.Set {
	k := filterKey{mode: mode.Name, day: day}
	s, ok := u.filters[k]
	if !ok {
		s = &filter.Set{}
		u.filters[k] = s
	}
	return s
}

// Filters lists the active filters of day.
func (u *Service) Filters(mode progress.Mode, day domain.Day) []filter.Criterion {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.filterSet(mode, day).Criteria()
}

func (u *Service) ClearFilters(mode progress.Mode, day domain.Day) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.filterSet(mode, day).Clear()
}

// ToggleFilter adds c, or removes an equivalent active criterion. Adding is
// only allowed once the guesses have unlocked c. It reports whether c is
// active afterwards.
func (u *Service) ToggleFilter(mode progress.Mode, day domain.Day, c filter.Criterion) (bool, error) {
	if err := c.Validate(); err != nil {
		return false, err
	}
	st, err := u.store(mode)
	if err != nil {
		return false, err
	}
	target, err := st.Target(day)
	if err != nil {
		return false, err
	}
	guesses := st.Guesses(day)

	u.mu.Lock()
	defer u.mu.Unlock()
	set := u.filterSet(mode, day)
	if !set.Has(c) && !filter.Unlocked(c, target, guesses, u.german()) {
		u.Metrics.FilterToggle(c.Field.String(), "locked")
		return false, fmt.Errorf("%w: %s", ErrFilterLocked, c)
	}
	on := set.Toggle(c)
	result := "off"
	if on {
		result = "on"
	}
	u.Metrics.FilterToggle(c.Field.String(), result)
	return on, nil
}

// Available lists every filter the guesses of day have unlocked.
func (u *Service) Available(mode progress.Mode, day domain.Day) ([]filter.Criterion, error) {
	st, err := u.store(mode)
	if err != nil {
		return nil, err
	}
	target, err := st.Target(day)
	if err != nil {
		return nil, err
	}
	return filter.Available(target, st.Guesses(day), u.german()), nil
}

// Search returns the guessable cards matching text under the active filters.
// Cards already guessed are left out.
func (u *Service) Search(mode progress.Mode, day domain.Day, text string) ([]domain.Card, error) {
	st, err := u.store(mode)
	if err != nil {
		return nil, err
	}
	cat, err := u.catalog()
	if err != nil {
		return nil, err
	}
	exclude := map[string]bool{}
	for _, c := range st.GuessCodes(day) {
		exclude[c] = true
	}
	return u.engine.Candidates(cat.Cards(), u.Filters(mode, day), exclude, text, u.german()), nil
}

// Reset clears day's guesses and filters.
func (u *Service) Reset(ctx context.Context, mode progress.Mode, day domain.Day) error {
	st, err := u.store(mode)
	if err != nil {
		return err
	}
	u.ClearFilters(mode, day)
	st.Reset(ctx, day)
	u.Metrics.Reset(mode.Name)
	return nil
}

// ModeSummary describes the stored progress of one mode.
type ModeSummary struct {
	Mode   string `json:"mode"`
	Key    string `json:"key"`
	Days   int    `json:"days"`
	Solved int    `json:"solved"`
}

// Stored lists the modes that have progress in the blob store. Keys that
// belong to no mode are logged and skipped.
func (u *Service) Stored(ctx context.Context) ([]ModeSummary, error) {
	if u.blobs == nil || len(u.stores) == 0 {
		return nil, errNotConfigured
	}
	keys, err := u.blobs.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stored progress: %w", err)
	}
	byKey := make(map[string]progress.Mode, len(u.stores))
	for _, m := range progress.Modes() {
		byKey[m.StorageKey()] = m
	}
	out := make([]ModeSummary, 0, len(keys))
	for _, k := range keys {
		m, ok := byKey[k]
		if !ok {
			u.Log.Warn("stored key belongs to no mode", "key", k)
			continue
		}
		st := u.stores[m.Name]
		out = append(out, ModeSummary{Mode: m.Name, Key: k, Days: len(st.Days()), Solved: len(st.SolvedDays())})
	}
	return out, nil
}

// Days lists the days played in mode.
func (u *Service) Days(mode progress.Mode) ([]progress.DayStatus, error) {
	st, err := u.store(mode)
	if err != nil {
		return nil, err
	}
	return st.Days(), nil
}

func (u *Service) shareLink(mode progress.Mode, day domain.Day) (share.Link, domain.Card, []domain.Card, error) {
	st, err := u.store(mode)
	if err != nil {
		return share.Link{}, domain.Card{}, nil, err
	}
	codes := st.GuessCodes(day)
	if len(codes) == 0 {
		return share.Link{}, domain.Card{}, nil, ErrNothingToShare
	}
	target, err := st.Target(day)
	if err != nil {
		return share.Link{}, domain.Card{}, nil, err
	}
	l := share.Link{Day: day, Code: target.Code, Guesses: codes, German: u.german()}
	return l, target, st.Guesses(day), nil
}

// ShareLink encodes day's game as a viewer link.
func (u *Service) ShareLink(mode progress.Mode, day domain.Day) (string, error) {
	l, _, _, err := u.shareLink(mode, day)
	if err != nil {
		return "", err
	}
	return u.codec.Encode(l), nil
}

// ShareText is the copyable result summary with one glyph row per guess.
func (u *Service) ShareText(mode progress.Mode, day domain.Day) (string, error) {
	l, target, guesses, err := u.shareLink(mode, day)
	if err != nil {
		return "", err
	}
	title := u.opts.Title
	if mode.Name != progress.Classic.Name {
		title += " (" + mode.Name + ")"
	}
	return hint.Summary(title, u.opts.ShareBaseURL, day, target, guesses, l.German), nil
}

// Replay is a read-only view of a shared game.
type Replay struct {
	Day    domain.Day  `json:"day"`
	Target domain.Card `json:"target"`
	Rows   []Row       `json:"rows"`
	German bool        `json:"german"`
}

// View decodes a share link and rebuilds the feedback it shows. Codes the
// catalog does not know are shown as missing cards.
func (u *Service) View(link string) (Replay, error) {
	l, err := u.codec.Decode(link)
	if err != nil {
		u.Metrics.ShareDecode("invalid")
		u.Log.Warn("invalid share link", "error", err)
		return Replay{}, err
	}
	cat, err := u.catalog()
	if err != nil {
		return Replay{}, err
	}
	u.Metrics.ShareDecode("ok")
	r := Replay{Day: l.Day, Target: cat.Resolve(l.Code), Rows: make([]Row, len(l.Guesses)), German: l.German}
	for i, code := range l.Guesses {
		g := cat.Resolve(code)
		if g.Missing {
			u.Log.Warn("unknown card code in share link", "code", code)
		}
		r.Rows[i] = Row{Card: g, Feedback: hint.Diff(r.Target, g, l.German)}
	}
	return r, nil
}

// FindDay returns the most recent day, on or before from, whose target in
// mode is the card with code.
func (u *Service) FindDay(mode progress.Mode, code string, from domain.Day) (domain.Day, error) {
	if u.Selector == nil {
		return "", errNotConfigured
	}
	cat, err := u.catalog()
	if err != nil {
		return "", err
	}
	return selector.FindDay(u.Selector, cat, mode.Seed, code, from, u.opts.FindDayWindow)
}

// Cards lists the catalog ordered by code.
func (u *Service) Cards() ([]domain.Card, error) {
	cat, err := u.catalog()
	if err != nil {
		return nil, err
	}
	return cat.SortedByCode(), nil
}
