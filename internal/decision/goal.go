package decision

import (
	"maps"
	"time"

	"github.com/alex/mochi/internal/emotion"
)

// Names of the built-in goals.
const (
	GoalCompanionship = "companionship"
	GoalExplore       = "explore"
	GoalExpress       = "express"
	GoalStayPositive  = "stay_positive"
)

// Goal is a standing motivation. Priority is recomputed from BasePriority
// every cycle.
type Goal struct {
	Name             string            `json:"name"`
	Description      string            `json:"description"`
	BasePriority     Priority          `json:"base_priority"`
	Priority         Priority          `json:"priority"`
	TargetConditions map[string]string `json:"target_conditions,omitempty"`
	Deadline         time.Time         `json:"deadline,omitzero"`
	Progress         float64           `json:"progress"`
}

func (g Goal) clone() Goal {
	g.TargetConditions = maps.Clone(g.TargetConditions)
	return g
}

// DefaultGoals returns the seed goal set.
func DefaultGoals() []Goal {
	return []Goal{
		{
			Name:         GoalCompanionship,
			Description:  "build a close bond with the user and get their attention",
			BasePriority: High,
			Priority:     High,
			TargetConditions: map[string]string{
				"interaction_frequency": "regular",
				"emotional_bond":        "strong",
			},
		},
		{
			Name:         GoalExplore,
			Description:  "explore and learn new things to satisfy curiosity",
			BasePriority: Medium,
			Priority:     Medium,
			TargetConditions: map[string]string{
				"new_knowledge":            "acquired",
				"exploration_satisfaction": "high",
			},
		},
		{
			Name:         GoalExpress,
			Description:  "express personality and feelings authentically",
			BasePriority: Medium,
			Priority:     Medium,
			TargetConditions: map[string]string{
				"personality_expression": "authentic",
				"emotional_release":      "adequate",
			},
		},
		{
			Name:         GoalStayPositive,
			Description:  "keep a positive mood and enjoy life",
			BasePriority: High,
			Priority:     High,
			TargetConditions: map[string]string{
				"positive_emotions": "dominant",
				"life_satisfaction": "high",
			},
		},
	}
}

const (
	lonelyGoalLevel   = 0.6
	curiousGoalLevel  = 0.5
	negativeGoalLevel = 0.5
)

// goalAdjustment is the situational bonus for a goal this cycle.
func goalAdjustment(name string, sit Situation) int {
	kind, level := sit.mood()
	switch name {
	case GoalCompanionship:
		if (kind == emotion.Loneliness && level > lonelyGoalLevel) || sit.Silent() {
			return 1
		}
	case GoalExplore:
		if sit.Has(CuriosityTrigger) || (kind == emotion.Curiosity && level > curiousGoalLevel) {
			return 1
		}
	case GoalStayPositive:
		if kind.Negative() && level > negativeGoalLevel {
			return 2
		}
	}
	return 0
}

func reprioritize(goals []Goal, sit Situation) {
	for i := range goals {
		g := &goals[i]
		g.Priority = clampPriority(int(g.BasePriority) + goalAdjustment(g.Name, sit))
	}
}
