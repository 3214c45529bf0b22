package question

// Question is one card of the game: a situation with two answers, each moving
// the four gauges and leading to the next card (0 ends the branch).
type Question struct {
	ID          int    `json:"id"`
	Question    string `json:"question"`
	ChoixGauche string `json:"choixGauche"`
	ChoixDroite string `json:"choixDroite"`
	NextIDG     int    `json:"nextIdG"`
	NextIDD     int    `json:"nextIdD"`
	GPlanete    int    `json:"gPlanete"`
	GInclusion  int    `json:"gInclusion"`
	GSecurite   int    `json:"gSecurite"`
	GBudget     int    `json:"gBudget"`
	DPlanete    int    `json:"dPlanete"`
	DInclusion  int    `json:"dInclusion"`
	DSecurite   int    `json:"dSecurite"`
	DBudget     int    `json:"dBudget"`
}
