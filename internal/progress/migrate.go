package progress

import (
	"encoding/json"
	"fmt"

	"svw.info/cardle/internal/domain"
	"svw.info/cardle/internal/ports"
)

// CurrentVersion is the schema version written by Save.
const CurrentVersion = "1"

// legacyVersion is assumed for blobs without a recognised version tag.
const legacyVersion = "0"

// Blob is the persisted shape of one mode's progress.
type Blob struct {
	Version string                  `json:"version"`
	Days    map[domain.Day]DayEntry `json:"days"`
}

// DayEntry holds the pinned target and the guessed codes of one day.
// Rerolling modes also record, per guess, the target it was made against.
type DayEntry struct {
	Target  string   `json:"target"`
	Guesses []string `json:"guesses"`
	Targets []string `json:"targets,omitempty"`
}

// migrationEnv is what a step may need to rebuild data the old shape lacked.
type migrationEnv struct {
	mode Mode
	sel  ports.Selector
	cat  *domain.Catalog
}

type migration struct {
	from, to string
	apply    func(env migrationEnv, raw json.RawMessage) (json.RawMessage, error)
}

// migrations form a linear chain; each step upgrades exactly one version.
var migrations = []migration{
	{from: "0", to: "1", apply: migrateV0},
}

type versionProbe struct {
	Version *string `json:"version"`
}

// detectVersion reads the version tag. Anything unknown counts as legacy.
func detectVersion(raw []byte) string {
	var p versionProbe
	if err := json.Unmarshal(raw, &p); err != nil || p.Version == nil {
		return legacyVersion
	}
	if *p.Version == CurrentVersion {
		return CurrentVersion
	}
	for _, m := range migrations {
		if m.from == *p.Version {
			return *p.Version
		}
	}
	return legacyVersion
}

// migrate upgrades raw to CurrentVersion and decodes it. It returns the
// version the data started at.
func migrate(env migrationEnv, raw []byte) (Blob, string, error) {
	from := detectVersion(raw)
	version, data := from, json.RawMessage(raw)
	for version != CurrentVersion {
		step, ok := stepFrom(version)
		if !ok {
			return Blob{}, from, fmt.Errorf("no migration from version %q", version)
		}
		next, err := step.apply(env, data)
		if err != nil {
			return Blob{}, from, fmt.Errorf("migrate %s->%s: %w", step.from, step.to, err)
		}
		version, data = step.to, next
	}
	var b Blob
	if err := json.Unmarshal(data, &b); err != nil {
		return Blob{}, from, fmt.Errorf("decode progress: %w", err)
	}
	if b.Days == nil {
		b.Days = map[domain.Day]DayEntry{}
	}
	b.Version = CurrentVersion
	return b, from, nil
}

func stepFrom(version string) (migration, bool) {
	for _, m := range migrations {
		if m.from == version {
			return m, true
		}
	}
	return migration{}, false
}

type legacyGuess struct {
	Code string `json:"code"`
}

// migrateV0 converts {day: [{code}]} into the versioned shape. The old data
// never stored targets, so each one is derived by replaying the selector.
func migrateV0(env migrationEnv, raw json.RawMessage) (json.RawMessage, error) {
	var old map[domain.Day][]legacyGuess
	if err := json.Unmarshal(raw, &old); err != nil {
		return nil, err
	}
	out := Blob{Version: "1", Days: make(map[domain.Day]DayEntry, len(old))}
	for day, gs := range old {
		codes := make([]string, 0, len(gs))
		for _, g := range gs {
			codes = append(codes, g.Code)
		}
		target, err := env.mode.deriveTarget(env.sel, env.cat, day, codes)
		if err != nil {
			return nil, fmt.Errorf("day %s: %w", day, err)
		}
		out.Days[day] = DayEntry{Target: target.Code, Guesses: codes}
	}
	return json.Marshal(out)
}

// backfillTargets fills in per-guess targets for entries written before they
// were recorded. The replay runs against the catalog at load time; a solved
// day keeps its pinned target as the last round's.
func backfillTargets(mode Mode, sel ports.Selector, cat *domain.Catalog, days map[domain.Day]DayEntry) error {
	for d, e := range days {
		if len(e.Guesses) == 0 || len(e.Targets) == len(e.Guesses) {
			continue
		}
		targets, err := mode.replayTargets(sel, cat, d, e.Guesses)
		if err != nil {
			return fmt.Errorf("day %s: %w", d, err)
		}
		last := len(e.Guesses) - 1
		if last < len(targets) && e.Guesses[last] == e.Target {
			targets[last] = e.Target
		}
		e.Targets = targets
		days[d] = e
	}
	return nil
}
