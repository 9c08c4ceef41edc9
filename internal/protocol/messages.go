package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ClientName      string `json:"client_name"`
	Role            string `json:"role,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string         `json:"type"`
	ProtocolVersion string         `json:"protocol_version"`
	SessionID       string         `json:"session_id"`
	Role            string         `json:"role"`
	WorldParams     WorldParams    `json:"world_params"`
	Catalogs        CatalogDigests `json:"catalogs"`
}

type WorldParams struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	TickMS     int    `json:"tick_ms"`
	DaySeconds int    `json:"day_seconds"`
	BaseFOV    int    `json:"base_fov"`
	Seed       uint64 `json:"seed"`
}

type CatalogDigests struct {
	ItemsDigest   string `json:"items_digest"`
	QuestsDigest  string `json:"quests_digest"`
	EnemiesDigest string `json:"enemies_digest"`
	LinesDigest   string `json:"lines_digest"`
	TuningDigest  string `json:"tuning_digest,omitempty"`
}

// Player actions carried by ACT.
const (
	ActMove     = "MOVE"
	ActInteract = "INTERACT"
	ActCombat   = "COMBAT"
	ActCursor   = "CURSOR"
	ActConfirm  = "CONFIRM"
	ActUse      = "USE"
	ActEquip    = "EQUIP"
	ActBuy      = "BUY"
	ActOpen     = "OPEN"
	ActClose    = "CLOSE"
	ActSave     = "SAVE"
)

// ACT (client -> server)
type ActMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ID              string `json:"id"`
	Action          string `json:"action"`
	DX              int    `json:"dx,omitempty"`
	DY              int    `json:"dy,omitempty"`
	Slot            int    `json:"slot,omitempty"`
	Combat          string `json:"combat,omitempty"`
	Mode            string `json:"mode,omitempty"`
}

// ACK (server -> client) answers one ACT.
type AckMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Ref             string `json:"ref"`
	OK              bool   `json:"ok"`
	Code            string `json:"code,omitempty"`
	Message         string `json:"message,omitempty"`
}

// VIEW (server -> client) is a read-only snapshot of the session.
type ViewMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Tick            uint64 `json:"tick"`
	SessionID       string `json:"session_id,omitempty"`

	Clock  ClockView  `json:"clock"`
	Mode   string     `json:"mode"`
	Player PlayerView `json:"player"`

	// Tiles is the visible window, one string per row. Cells outside the
	// field of view are blank.
	Origin    [2]int       `json:"origin"`
	Radius    int          `json:"radius"`
	Tiles     []string     `json:"tiles"`
	Entities  []EntityView `json:"entities"`
	Distorted bool         `json:"distorted,omitempty"`

	Combat *CombatView `json:"combat,omitempty"`
	Shop   *ShopView   `json:"shop,omitempty"`
	Quests []QuestView `json:"quests"`
	Events []string    `json:"events"`
	Active string      `json:"active,omitempty"`
	Ending *EndingView `json:"ending,omitempty"`
}

type ClockView struct {
	Elapsed   float64 `json:"elapsed"`
	TimeOfDay float64 `json:"time_of_day"`
	Weather   string  `json:"weather"`
}

type PlayerView struct {
	Pos     [2]int `json:"pos"`
	Zone    string `json:"zone"`
	Job     string `json:"job"`
	Level   int    `json:"level"`
	XP      int    `json:"xp"`
	XPNext  int    `json:"xp_next"`
	Credits int    `json:"credits"`
	Attack  int    `json:"attack"`
	Defense int    `json:"defense"`

	HP         float64 `json:"hp"`
	MaxHP      float64 `json:"max_hp"`
	Stress     float64 `json:"stress"`
	Stamina    float64 `json:"stamina"`
	MaxStamina float64 `json:"max_stamina"`
	Hunger     float64 `json:"hunger"`
	Sleep      float64 `json:"sleep"`

	Fatigue   float64 `json:"fatigue"`
	Isolation float64 `json:"isolation"`
	Stability float64 `json:"stability"`
	Anxiety   float64 `json:"anxiety"`

	Wanted     int            `json:"wanted"`
	Reputation map[string]int `json:"reputation"`
	Sync       int            `json:"sync"`
	Decay      int            `json:"decay"`
	Network    int            `json:"network"`

	FOVBonusTurns int `json:"fov_bonus_turns,omitempty"`
	StealthTurns  int `json:"stealth_turns,omitempty"`

	Skills    map[string]SkillView `json:"skills"`
	Inventory []SlotView           `json:"inventory"`
	Equipped  map[string]string    `json:"equipped"`
	Weight    float64              `json:"weight"`
}

type SkillView struct {
	Level  int `json:"level"`
	XP     int `json:"xp"`
	XPNext int `json:"xp_next"`
}

type SlotView struct {
	Slot int    `json:"slot"`
	Item string `json:"item"`
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

type EntityView struct {
	Kind string `json:"kind"`
	ID   int    `json:"id"`
	Pos  [2]int `json:"pos"`
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
}

type CombatView struct {
	EnemyID    int      `json:"enemy_id"`
	EnemyName  string   `json:"enemy_name"`
	EnemyHP    int      `json:"enemy_hp"`
	EnemyMaxHP int      `json:"enemy_max_hp"`
	Cursor     int      `json:"cursor"`
	Phase      string   `json:"phase"`
	Result     string   `json:"result,omitempty"`
	Log        []string `json:"log"`
}

type ShopView struct {
	Merchant string         `json:"merchant"`
	Items    []ShopItemView `json:"items"`
}

type ShopItemView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
}

type QuestView struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Objectives []ObjectiveView `json:"objectives"`
}

type ObjectiveView struct {
	Label string `json:"label"`
	Done  bool   `json:"done"`
}

type EndingView struct {
	Direction string `json:"direction"`
}
