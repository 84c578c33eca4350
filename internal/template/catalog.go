package template

import "github.com/enutri/platform/internal/patient"

// Set is one bundle of default recommendation texts for a goal. The texts
// are starting points the professional edits per patient.
type Set struct {
	Goal      patient.Goal `json:"goal"`
	Diet      string       `json:"diet"`
	Training  string       `json:"training"`
	Lifestyle string       `json:"lifestyle"`
}

var catalog = map[patient.Goal]Set{
	patient.GoalWeightLoss: {
		Goal:      patient.GoalWeightLoss,
		Diet:      "Moderate caloric deficit of 300-500 kcal/day. Prioritize lean protein at every meal, vegetables filling half the plate, and whole grains over refined carbohydrates. Avoid sugary drinks and limit ultra-processed foods.",
		Training:  "Combine 3 weekly resistance sessions with 150+ minutes of moderate aerobic activity. Favor compound movements to preserve lean mass during the deficit.",
		Lifestyle: "Sleep 7-9 hours per night. Keep a simple food diary for the first weeks. Weigh in at most once a week, same day and time.",
	},
	patient.GoalHypertrophy: {
		Goal:      patient.GoalHypertrophy,
		Diet:      "Caloric surplus of 250-400 kcal/day with 1.6-2.2 g of protein per kg of body weight, spread over 4-5 meals. Carbohydrates concentrated around training sessions.",
		Training:  "4-5 weekly resistance sessions with progressive overload, 8-12 repetition range for most work. Track loads and aim for small weekly progressions.",
		Lifestyle: "Sleep is the main recovery lever: 8+ hours. Manage training stress; deload every 6-8 weeks.",
	},
	patient.GoalMaintenance: {
		Goal:      patient.GoalMaintenance,
		Diet:      "Eat at estimated maintenance calories with balanced macronutrients. Keep protein at 1.2-1.6 g per kg of body weight and fiber above 25 g/day.",
		Training:  "Maintain current activity: 2-3 resistance sessions plus regular aerobic activity you enjoy. Consistency over intensity.",
		Lifestyle: "Establish a stable meal routine. Monitor weight monthly; intervene early on sustained drift.",
	},
	patient.GoalGeneralHealth: {
		Goal:      patient.GoalGeneralHealth,
		Diet:      "Follow a varied whole-food pattern: vegetables, fruits, legumes, whole grains, lean proteins. Limit sodium, added sugar and alcohol.",
		Training:  "At least 150 minutes of moderate aerobic activity per week plus 2 resistance sessions covering the major muscle groups.",
		Lifestyle: "Regular sleep schedule, daily hydration of roughly 35 ml per kg, and routine preventive exams as indicated.",
	},
}

// Defaults returns the default recommendation set for a goal. Unknown goals
// fall back to the general-health set.
func Defaults(goal patient.Goal) Set {
	if set, ok := catalog[goal]; ok {
		return set
	}
	return catalog[patient.GoalGeneralHealth]
}
