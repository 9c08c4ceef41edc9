package model

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"
)

type ObjectiveKind uint8

const (
	ObjEnterZone ObjectiveKind = iota
	ObjContacts
	ObjCarryItem
	ObjUseTerminal
	ObjTamperCCTV
	ObjVisitErrorTiles
	ObjErrorWithItem
	ObjTalkFaction
)

var objectiveNames = []string{
	"enter_zone", "contacts", "carry_item", "use_terminal",
	"tamper_cctv", "visit_error_tiles", "error_with_item", "talk_faction",
}

func (k ObjectiveKind) String() string               { return enumName(objectiveNames, int(k)) }
func (k ObjectiveKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
func (k *ObjectiveKind) UnmarshalText(b []byte) error {
	return parseEnum(objectiveNames, "objective", b, k)
}

// Objective is one typed quest goal. Which fields matter depends on Kind;
// a zero Zone on use_terminal means any zone (AnyZone set).
type Objective struct {
	Kind    ObjectiveKind `json:"kind"`
	Label   string        `json:"label"`
	Zone    Zone          `json:"zone,omitempty"`
	AnyZone bool          `json:"any_zone,omitempty"`
	Count   int           `json:"count,omitempty"`
	Item    string        `json:"item,omitempty"`
	Faction Faction       `json:"faction,omitempty"`
	After   []int         `json:"after,omitempty"`
}

// Target is the counter an objective needs, at least 1.
func (o Objective) Target() int { return max(1, o.Count) }

type QuestDef struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Desc          string      `json:"desc"`
	Giver         string      `json:"giver"`
	Objectives    []Objective `json:"objectives"`
	RewardCredits int         `json:"reward_credits"`
	RewardXP      int         `json:"reward_xp"`
	RewardItem    string      `json:"reward_item,omitempty"`
	GrantOnAccept string      `json:"grant_on_accept,omitempty"`
}

func (d QuestDef) Validate() error {
	if d.ID == "" || len(d.Objectives) == 0 {
		return fmt.Errorf("quest %q: id and objectives required", d.ID)
	}
	for i, o := range d.Objectives {
		for _, a := range o.After {
			if a < 0 || a >= len(d.Objectives) || a == i {
				return fmt.Errorf("quest %q objective %d: bad after index %d", d.ID, i, a)
			}
		}
	}
	return nil
}

// Quest is an accepted quest with its progress. Done[i] tracks
// Def.Objectives[i]; Completed is true exactly when every flag is.
type Quest struct {
	Def       QuestDef
	Giver     string
	Done      []bool
	Progress  []int
	Completed bool

	errorTiles *mapset.Set[int]
}

func NewQuest(def QuestDef, giver string) *Quest {
	return &Quest{
		Def:      def,
		Giver:    giver,
		Done:     make([]bool, len(def.Objectives)),
		Progress: make([]int, len(def.Objectives)),
	}
}

// Ready reports whether objective i's prerequisites are met.
func (q *Quest) Ready(i int) bool {
	for _, a := range q.Def.Objectives[i].After {
		if !q.Done[a] {
			return false
		}
	}
	return true
}

// Complete marks objective i done and reports whether the flag changed.
// Completion is idempotent.
func (q *Quest) Complete(i int) bool {
	if i < 0 || i >= len(q.Done) || q.Done[i] {
		return false
	}
	q.Done[i] = true
	q.Completed = q.allDone()
	return true
}

// NoteErrorTile records a distinct error tile and returns the distinct count.
func (q *Quest) NoteErrorTile(idx int) int {
	if q.errorTiles == nil {
		set := mapset.New[int]()
		q.errorTiles = &set
	}
	q.errorTiles.Put(idx)
	return q.errorTiles.Size()
}

func (q *Quest) DoneCount() int {
	n := 0
	for _, d := range q.Done {
		if d {
			n++
		}
	}
	return n
}

func (q *Quest) allDone() bool {
	for _, d := range q.Done {
		if !d {
			return false
		}
	}
	return true
}
