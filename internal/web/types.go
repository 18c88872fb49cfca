package web

type SessionSummary struct {
	ID         string `json:"id"`
	ResumeCode string `json:"resume_code"`
	Phase      string `json:"phase"`
	Players    int    `json:"players"`
}
