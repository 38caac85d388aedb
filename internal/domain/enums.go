package domain

// CardType is the card's printed type.
type CardType string

const (
	TypeEvent               CardType = "event"
	TypeResource            CardType = "resource"
	TypeAlly                CardType = "ally"
	TypePlayerSideScheme    CardType = "player_side_scheme"
	TypeSupport             CardType = "support"
	TypeUpgrade             CardType = "upgrade"
	TypeAttachment          CardType = "attachment"
	TypeObligation          CardType = "obligation"
	TypeTreachery           CardType = "treachery"
	TypeMinion              CardType = "minion"
	TypeHero                CardType = "hero"
	TypeAlterEgo            CardType = "alter_ego"
	TypeMainScheme          CardType = "main_scheme"
	TypeSideScheme          CardType = "side_scheme"
	TypeEnvironment         CardType = "environment"
	TypeEvidenceMeans       CardType = "evidence_means"
	TypeEvidenceMotive      CardType = "evidence_motive"
	TypeEvidenceOpportunity CardType = "evidence_opportunity"
)

// Faction is the card's aspect or affiliation.
type Faction string

const (
	FactionHero       Faction = "hero"
	FactionBasic      Faction = "basic"
	FactionAggression Faction = "aggression"
	FactionProtection Faction = "protection"
	FactionJustice    Faction = "justice"
	FactionLeadership Faction = "leadership"
	FactionPool       Faction = "pool"
	FactionCampaign   Faction = "campaign"
	FactionEncounter  Faction = "encounter"
)

// Resource is a resource symbol printed on a card.
type Resource string

const (
	ResourceEnergy   Resource = "e"
	ResourceMental   Resource = "m"
	ResourcePhysical Resource = "p"
	ResourceWild     Resource = "w"
)

// Pack is a product the card was released in.
type Pack string

// enum is a value <-> display name table built once at package init.
type enum[T ~string] struct {
	names  map[T]string
	values map[string]T
	order  []T
}

type entry[T ~string] struct {
	value T
	name  string
}

func newEnum[T ~string](entries ...entry[T]) enum[T] {
	e := enum[T]{
		names:  make(map[T]string, len(entries)),
		values: make(map[string]T, len(entries)),
		order:  make([]T, 0, len(entries)),
	}
	for _, en := range entries {
		e.names[en.value] = en.name
		e.values[en.name] = en.value
		e.order = append(e.order, en.value)
	}
	return e
}

// name falls back to the raw value for entries the table does not know.
func (e enum[T]) name(v T) string {
	if n, ok := e.names[v]; ok {
		return n
	}
	return string(v)
}

func (e enum[T]) value(name string) (T, bool) {
	v, ok := e.values[name]
	return v, ok
}

var cardTypes = newEnum(
	entry[CardType]{TypeEvent, "Event"},
	entry[CardType]{TypeResource, "Resource"},
	entry[CardType]{TypeAlly, "Ally"},
	entry[CardType]{TypePlayerSideScheme, "Player Side Scheme"},
	entry[CardType]{TypeSupport, "Support"},
	entry[CardType]{TypeUpgrade, "Upgrade"},
	entry[CardType]{TypeAttachment, "Attachment"},
	entry[CardType]{TypeObligation, "Obligation"},
	entry[CardType]{TypeTreachery, "Treachery"},
	entry[CardType]{TypeMinion, "Minion"},
	entry[CardType]{TypeHero, "Hero"},
	entry[CardType]{TypeAlterEgo, "Alter Ego"},
	entry[CardType]{TypeMainScheme, "Main Scheme"},
	entry[CardType]{TypeSideScheme, "Side Scheme"},
	entry[CardType]{TypeEnvironment, "Environment"},
	entry[CardType]{TypeEvidenceMeans, "Evidence Means"},
	entry[CardType]{TypeEvidenceMotive, "Evidence Motive"},
	entry[CardType]{TypeEvidenceOpportunity, "Evidence Opportunity"},
)

var factions = newEnum(
	entry[Faction]{FactionHero, "Hero"},
	entry[Faction]{FactionBasic, "Basic"},
	entry[Faction]{FactionAggression, "Aggression"},
	entry[Faction]{FactionProtection, "Protection"},
	entry[Faction]{FactionJustice, "Justice"},
	entry[Faction]{FactionLeadership, "Leadership"},
	entry[Faction]{FactionPool, "Pool"},
	entry[Faction]{FactionCampaign, "Campaign"},
	entry[Faction]{FactionEncounter, "Encounter"},
)

var resources = newEnum(
	entry[Resource]{ResourceEnergy, "Energy"},
	entry[Resource]{ResourceMental, "Mental"},
	entry[Resource]{ResourcePhysical, "Physical"},
	entry[Resource]{ResourceWild, "Wild"},
)

var packs = newEnum(
	entry[Pack]{"core", "Core"},
	entry[Pack]{"gob", "Green Goblin"},
	entry[Pack]{"cap", "Captain America"},
	entry[Pack]{"msm", "Ms Marvel"},
	entry[Pack]{"twc", "Wrecking Crew"},
	entry[Pack]{"thor", "Thor"},
	entry[Pack]{"bkw", "Black Widow"},
	entry[Pack]{"drs", "Doctor Strange"},
	entry[Pack]{"hlk", "Hulk"},
	entry[Pack]{"ron", "Ronan Modular"},
	entry[Pack]{"trors", "Rise Of Red Skull"},
	entry[Pack]{"toafk", "Once And Future Kang"},
	entry[Pack]{"ant", "Ant Man"},
	entry[Pack]{"wsp", "Wasp"},
	entry[Pack]{"qsv", "Quicksilver"},
	entry[Pack]{"scw", "Scarlet Witch"},
	entry[Pack]{"gmw", "Galaxys Most Wanted"},
	entry[Pack]{"stld", "Star Lord"},
	entry[Pack]{"gam", "Gamora"},
	entry[Pack]{"drax", "Drax"},
	entry[Pack]{"vnm", "Venom"},
	entry[Pack]{"mts", "Mad Titans Shadow"},
	entry[Pack]{"nebu", "Nebula"},
	entry[Pack]{"warm", "War Machine"},
	entry[Pack]{"hood", "Hood"},
	entry[Pack]{"valk", "Valkyrie"},
	entry[Pack]{"vision", "Vision"},
	entry[Pack]{"sm", "Sinister Motives"},
	entry[Pack]{"nova", "Nova"},
	entry[Pack]{"ironheart", "Ironheart"},
	entry[Pack]{"spiderham", "Spider Ham"},
	entry[Pack]{"spdr", "SP//dr"},
	entry[Pack]{"mut_gen", "Mutant Genesis"},
	entry[Pack]{"cyclops", "Cyclops"},
	entry[Pack]{"phoenix", "Phoenix"},
	entry[Pack]{"wolv", "Wolverine"},
	entry[Pack]{"storm", "Storm"},
	entry[Pack]{"gambit", "Gambit"},
	entry[Pack]{"rogue", "Rogue"},
	entry[Pack]{"mojo", "Mojo Mania"},
	entry[Pack]{"next_evol", "Next Evolution"},
	entry[Pack]{"psylocke", "Psylocke"},
	entry[Pack]{"angel", "Angel"},
	entry[Pack]{"x23", "X23"},
	entry[Pack]{"deadpool", "Deadpool"},
	entry[Pack]{"aoa", "Age Of Apocalypse"},
	entry[Pack]{"iceman", "Iceman"},
	entry[Pack]{"jubilee", "Jubilee"},
	entry[Pack]{"ncrawler", "Nightcrawler"},
	entry[Pack]{"magneto", "Magneto"},
	entry[Pack]{"aos", "Agents Of S.H.I.E.L.D."},
	entry[Pack]{"bp", "Black Panther"},
	entry[Pack]{"silk", "Silk"},
	entry[Pack]{"falcon", "Falcon"},
	entry[Pack]{"winter", "Winter Soldier"},
	entry[Pack]{"tt", "Trickster Takeover"},
	entry[Pack]{"cw", "Civil War"},
)

func (t CardType) Name() string { return cardTypes.name(t) }
func (f Faction) Name() string  { return factions.name(f) }
func (r Resource) Name() string { return resources.name(r) }
func (p Pack) Name() string     { return packs.name(p) }

// ParseCardType looks a type up by its display name.
func ParseCardType(name string) (CardType, bool) { return cardTypes.value(name) }

// ParseFaction looks a faction up by its display name.
func ParseFaction(name string) (Faction, bool) { return factions.value(name) }

// ParseResource looks a resource up by its display name.
func ParseResource(name string) (Resource, bool) { return resources.value(name) }

// ParsePack looks a pack up by its display name.
func ParsePack(name string) (Pack, bool) { return packs.value(name) }

// Packs lists known packs in release order.
func Packs() []Pack { return append([]Pack(nil), packs.order...) }
