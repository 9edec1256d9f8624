package model

// Reflection modes.
const (
	ModeDaily   = "daily"
	ModeWeekly  = "weekly"
	ModeMonthly = "monthly"
)

// List caps for the read endpoints.
const (
	MaxListedDaily  = 30
	MaxListedWeekly = 12
	MaxListedMonth  = 12
)

// ReflectionStats is the loosely-typed stats bag carried on reflection rows.
// Fields are optional; absent fields stay out of the stored JSON.
type ReflectionStats struct {
	EntryCount  *int     `json:"entryCount,omitempty"`
	TopEmotions []string `json:"topEmotions,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
}

type ReflectionPeriod struct {
	Type  string `json:"type"`
	Start string `json:"start"`
	End   string `json:"end"`
	Date  string `json:"date,omitempty"`
}

// ReflectionCard is the read-facing projection of a daily summary or period
// reflection row.
type ReflectionCard struct {
	RecordID        string           `json:"recordId"`
	Period          ReflectionPeriod `json:"period"`
	Achievements    []string         `json:"achievements"`
	Commitments     []string         `json:"commitments"`
	MoodOverall     *string          `json:"moodOverall"`
	MoodReason      *string          `json:"moodReason"`
	Flashback       *string          `json:"flashback"`
	Stats           *ReflectionStats `json:"stats"`
	Edited          bool             `json:"edited"`
	LastGeneratedAt *string          `json:"lastGeneratedAt"`
	GenVersion      *string          `json:"genVersion,omitempty"`
}

type SyncReflectionRequest struct {
	Mode       string `json:"mode" binding:"required"`
	AnchorDate string `json:"anchorDate"`
}

// PatchReflectionRequest carries a partial user edit. Pointer fields
// distinguish "not supplied" from explicit null.
type PatchReflectionRequest struct {
	Achievements *[]string `json:"achievements"`
	Commitments  *[]string `json:"commitments"`
	MoodOverall  *string   `json:"moodOverall"`
	MoodReason   *string   `json:"moodReason"`
	Flashback    *string   `json:"flashback"`
}

type GenerateSummaryRequest struct {
	Date string `json:"date" binding:"required"`
}

type UpdateJournalRequest struct {
	RephrasedText string `json:"rephrasedText" binding:"required"`
}

type ListJournalsRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Page      int    `json:"page"`
	Limit     int    `json:"limit"`
}

type ContextRequest struct {
	Scope      string `json:"scope" binding:"required"`
	AnchorDate string `json:"anchorDate"`
	Limit      int    `json:"limit"`
	Range      *struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"range"`
}

type SearchRequest struct {
	Query string `json:"query" binding:"required"`
}

type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}
