// Package catalog holds the static card and scene-tile data the game is
// played with: the means and evidence card pools, the location and topic
// tiles, the fixed cause-of-death tile, and the avatar color palette.
// Callers always receive fresh copies; the catalog itself is never mutated.
package catalog

// CardType distinguishes the two card pools.
type CardType string

const (
	CardTypeMeans    CardType = "MEANS"
	CardTypeEvidence CardType = "EVIDENCE"
)

// Card is an immutable catalog entry. Identity is ID; replenished copies
// get a freshly suffixed ID and are interchangeable but not identity-equal.
type Card struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Type CardType `json:"type"`
}

// OptionsPerTile is the fixed number of options on every scene tile.
const OptionsPerTile = 6

// CauseOfDeathTileID identifies the single non-replaceable cause-of-death tile.
const CauseOfDeathTileID = "cause_of_death"

// LocationTilePrefix marks location tiles, which are chosen once at setup
// and never replaced.
const LocationTilePrefix = "loc_"

// Tile is a scene-tile catalog entry: a name and exactly six options.
type Tile struct {
	ID      string
	Name    string
	Options [OptionsPerTile]string
}

var meansCards = []Card{
	{ID: "m1", Name: "Dagger", Type: CardTypeMeans},
	{ID: "m2", Name: "Scalpel", Type: CardTypeMeans},
	{ID: "m3", Name: "Box Cutter", Type: CardTypeMeans},
	{ID: "m4", Name: "Rope", Type: CardTypeMeans},
	{ID: "m5", Name: "Piano Wire", Type: CardTypeMeans},
	{ID: "m6", Name: "Fishing Line", Type: CardTypeMeans},
	{ID: "m7", Name: "Necktie", Type: CardTypeMeans},
	{ID: "m8", Name: "Silk Scarf", Type: CardTypeMeans},
	{ID: "m9", Name: "Pillow", Type: CardTypeMeans},
	{ID: "m10", Name: "Plastic Bag", Type: CardTypeMeans},
	{ID: "m11", Name: "Silenced Pistol", Type: CardTypeMeans},
	{ID: "m12", Name: "Nail Gun", Type: CardTypeMeans},
	{ID: "m13", Name: "Crossbow", Type: CardTypeMeans},
	{ID: "m14", Name: "Cyanide", Type: CardTypeMeans},
	{ID: "m15", Name: "Arsenic", Type: CardTypeMeans},
	{ID: "m16", Name: "Sleeping Pills", Type: CardTypeMeans},
	{ID: "m17", Name: "Insulin Overdose", Type: CardTypeMeans},
	{ID: "m18", Name: "Carbon Monoxide", Type: CardTypeMeans},
	{ID: "m19", Name: "Gas Leak", Type: CardTypeMeans},
	{ID: "m20", Name: "Corrosive Chemicals", Type: CardTypeMeans},
	{ID: "m21", Name: "Syringe", Type: CardTypeMeans},
	{ID: "m22", Name: "Claw Hammer", Type: CardTypeMeans},
	{ID: "m23", Name: "Axe", Type: CardTypeMeans},
	{ID: "m24", Name: "Baseball Bat", Type: CardTypeMeans},
	{ID: "m25", Name: "Brick", Type: CardTypeMeans},
	{ID: "m26", Name: "Bronze Statue", Type: CardTypeMeans},
	{ID: "m27", Name: "Metal Candlestick", Type: CardTypeMeans},
	{ID: "m28", Name: "Clothes Iron", Type: CardTypeMeans},
	{ID: "m29", Name: "Ice", Type: CardTypeMeans},
	{ID: "m30", Name: "Drowning", Type: CardTypeMeans},
	{ID: "m31", Name: "Fire", Type: CardTypeMeans},
	{ID: "m32", Name: "Electrocution", Type: CardTypeMeans},
	{ID: "m33", Name: "Car Accident", Type: CardTypeMeans},
	{ID: "m34", Name: "Elevator", Type: CardTypeMeans},
	{ID: "m35", Name: "Venomous Snake", Type: CardTypeMeans},
	{ID: "m36", Name: "Virus", Type: CardTypeMeans},
	{ID: "m37", Name: "Noise and Light", Type: CardTypeMeans},
	{ID: "m38", Name: "Hypnosis", Type: CardTypeMeans},
}

var evidenceCards = []Card{
	{ID: "e1", Name: "Blood Stain", Type: CardTypeEvidence},
	{ID: "e2", Name: "Fingerprint", Type: CardTypeEvidence},
	{ID: "e3", Name: "Strand of Hair", Type: CardTypeEvidence},
	{ID: "e4", Name: "Skin Sample", Type: CardTypeEvidence},
	{ID: "e5", Name: "Saliva", Type: CardTypeEvidence},
	{ID: "e6", Name: "Bite Mark", Type: CardTypeEvidence},
	{ID: "e7", Name: "Insect Cocoon", Type: CardTypeEvidence},
	{ID: "e8", Name: "Pet Fur", Type: CardTypeEvidence},
	{ID: "e9", Name: "Mobile Phone", Type: CardTypeEvidence},
	{ID: "e10", Name: "Laptop", Type: CardTypeEvidence},
	{ID: "e11", Name: "USB Drive", Type: CardTypeEvidence},
	{ID: "e12", Name: "Deleted Messages", Type: CardTypeEvidence},
	{ID: "e13", Name: "Browser History", Type: CardTypeEvidence},
	{ID: "e14", Name: "Audio Recording", Type: CardTypeEvidence},
	{ID: "e15", Name: "Dashcam Footage", Type: CardTypeEvidence},
	{ID: "e16", Name: "CCTV Tape", Type: CardTypeEvidence},
	{ID: "e17", Name: "Diary", Type: CardTypeEvidence},
	{ID: "e18", Name: "Suicide Note", Type: CardTypeEvidence},
	{ID: "e19", Name: "Insurance Contract", Type: CardTypeEvidence},
	{ID: "e20", Name: "Will", Type: CardTypeEvidence},
	{ID: "e21", Name: "Coded Notebook", Type: CardTypeEvidence},
	{ID: "e22", Name: "Travel Ticket", Type: CardTypeEvidence},
	{ID: "e23", Name: "Bank Statement", Type: CardTypeEvidence},
	{ID: "e24", Name: "Wristwatch", Type: CardTypeEvidence},
	{ID: "e25", Name: "Jewelry", Type: CardTypeEvidence},
	{ID: "e26", Name: "Glasses", Type: CardTypeEvidence},
	{ID: "e27", Name: "Torn Button", Type: CardTypeEvidence},
	{ID: "e28", Name: "Handkerchief", Type: CardTypeEvidence},
	{ID: "e29", Name: "Lipstick Mark", Type: CardTypeEvidence},
	{ID: "e30", Name: "Perfume Scent", Type: CardTypeEvidence},
	{ID: "e31", Name: "Rubber Gloves", Type: CardTypeEvidence},
	{ID: "e32", Name: "Face Mask", Type: CardTypeEvidence},
	{ID: "e33", Name: "Mud", Type: CardTypeEvidence},
	{ID: "e34", Name: "Pollen", Type: CardTypeEvidence},
	{ID: "e35", Name: "Sand and Gravel", Type: CardTypeEvidence},
	{ID: "e36", Name: "Cigarette Butt", Type: CardTypeEvidence},
	{ID: "e37", Name: "Pill Wrapper", Type: CardTypeEvidence},
	{ID: "e38", Name: "Broken Glass", Type: CardTypeEvidence},
	{ID: "e39", Name: "Tire Track", Type: CardTypeEvidence},
	{ID: "e40", Name: "Pry Marks", Type: CardTypeEvidence},
	{ID: "e41", Name: "Spare Key", Type: CardTypeEvidence},
}

var causeOfDeathTile = Tile{
	ID:      CauseOfDeathTileID,
	Name:    "Cause of Death",
	Options: [OptionsPerTile]string{"Suffocation", "Severe Blood Loss", "Severe Injury", "Poisoning", "Illness or Natural", "Accident"},
}

var locationTiles = []Tile{
	{
		ID:      "loc_home",
		Name:    "Location (Residence)",
		Options: [OptionsPerTile]string{"Living Room", "Bedroom", "Kitchen", "Bathroom", "Balcony", "Garden"},
	},
	{
		ID:      "loc_urban",
		Name:    "Location (Urban)",
		Options: [OptionsPerTile]string{"School", "Office", "Hospital", "Bar", "Restaurant", "Hotel"},
	},
	{
		ID:      "loc_public",
		Name:    "Location (Public)",
		Options: [OptionsPerTile]string{"Park", "Forest", "Riverside", "Construction Site", "Bookstore", "Supermarket"},
	},
}

var topicTiles = []Tile{
	{ID: "time_death", Name: "Time of Death", Options: [OptionsPerTile]string{"Dawn", "Morning", "Noon", "Afternoon", "Evening", "Late Night"}},
	{ID: "duration", Name: "Duration of Crime", Options: [OptionsPerTile]string{"Instant", "Minutes", "Hours", "Brief", "Drawn Out", "Days"}},
	{ID: "weather", Name: "Weather", Options: [OptionsPerTile]string{"Sunny", "Rainy", "Cloudy", "Windy", "Foggy", "Snow or Cold"}},
	{ID: "corpse_state", Name: "State of the Body", Options: [OptionsPerTile]string{"Still Warm", "Rigid", "Decomposed", "Incomplete", "Burned", "Bruised"}},
	{ID: "clothes", Name: "Victim's Clothing", Options: [OptionsPerTile]string{"Neat", "Disheveled", "Elegant", "Uniform", "Sleepwear", "Unclothed"}},
	{ID: "expression", Name: "Victim's Expression", Options: [OptionsPerTile]string{"Calm", "Terrified", "Pained", "Angry", "Surprised", "Blank"}},
	{ID: "identity", Name: "Victim's Identity", Options: [OptionsPerTile]string{"Child", "Elderly", "Male", "Female", "Wealthy", "Homeless"}},
	{ID: "build", Name: "Victim's Build", Options: [OptionsPerTile]string{"Thin", "Heavy", "Tall", "Short", "Muscular", "Average"}},
	{ID: "trace", Name: "Trace at the Scene", Options: [OptionsPerTile]string{"Footprint", "Fingerprint", "Blood Stain", "Strange Smell", "Fragments", "Dirt"}},
	{ID: "scene_state", Name: "State of the Scene", Options: [OptionsPerTile]string{"Tidy", "Messy", "Signs of Struggle", "Wrecked", "Bare", "Scorched"}},
	{ID: "impression", Name: "General Impression", Options: [OptionsPerTile]string{"Brutal", "Sophisticated", "Clumsy", "Premeditated", "Impulsive", "Bizarre"}},
	{ID: "motive", Name: "Motive", Options: [OptionsPerTile]string{"Hatred", "Love", "Money", "Jealousy", "Power", "Perversion"}},
	{ID: "relation", Name: "Relationship", Options: [OptionsPerTile]string{"Lover", "Spouse", "Friend", "Colleague", "Enemy", "Stranger"}},
	{ID: "social_env", Name: "Social Setting", Options: [OptionsPerTile]string{"Quiet", "Noisy", "Crowded", "Deserted", "Festive", "Chaotic"}},
	{ID: "profile", Name: "Psychological Profile", Options: [OptionsPerTile]string{"Psychopath", "Protector", "Avenger", "Impulsive", "Calculating", "Paranoid"}},
	{ID: "report", Name: "Forensic Report", Options: [OptionsPerTile]string{"Defensive Wounds", "Body Moved", "Scene Cleaned", "Time Falsified", "Missing Body Part", "Mixed DNA"}},
	{ID: "modus_operandi", Name: "Modus Operandi", Options: [OptionsPerTile]string{"Locked Room", "Fake Alibi", "Substitution", "Remote Trap", "Disguise", "Staged Scene"}},
	{ID: "social", Name: "Social Background", Options: [OptionsPerTile]string{"Inheritance Dispute", "Family Secret", "Professional Scandal", "Domestic Violence", "Cult or Religion", "Social Media"}},
}

// avatarColors is the fixed palette players may pick from.
var avatarColors = []string{
	"slate", "stone", "red", "rose", "orange", "amber", "yellow",
	"lime", "green", "emerald", "teal", "cyan", "sky", "blue",
	"indigo", "violet", "purple", "fuchsia", "pink",
}

// MeansCards returns a copy of the means card pool.
func MeansCards() []Card {
	out := make([]Card, len(meansCards))
	copy(out, meansCards)
	return out
}

// EvidenceCards returns a copy of the evidence card pool.
func EvidenceCards() []Card {
	out := make([]Card, len(evidenceCards))
	copy(out, evidenceCards)
	return out
}

// CauseOfDeathTile returns a copy of the fixed cause-of-death tile.
func CauseOfDeathTile() Tile {
	return causeOfDeathTile
}

// LocationTiles returns a copy of the location tile pool.
func LocationTiles() []Tile {
	out := make([]Tile, len(locationTiles))
	copy(out, locationTiles)
	return out
}

// TopicTiles returns a copy of the replaceable topic tile pool.
func TopicTiles() []Tile {
	out := make([]Tile, len(topicTiles))
	copy(out, topicTiles)
	return out
}

// AvatarColors returns a copy of the avatar color palette.
func AvatarColors() []string {
	out := make([]string, len(avatarColors))
	copy(out, avatarColors)
	return out
}

// IsAvatarColor reports whether color is a member of the palette.
func IsAvatarColor(color string) bool {
	for _, c := range avatarColors {
		if c == color {
			return true
		}
	}
	return false
}
