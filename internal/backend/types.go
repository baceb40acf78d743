// internal/backend/types.go
// Bentuk JSON dari backend REST (puits, rapports, prévisions, auth)
package backend

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"time"

	"drilling-dashboard/internal/util"
)

// ID menerima angka maupun string dari backend (id rapport numerik, puitId string).
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	*id = ID(string(b))
	return nil
}

func (id ID) String() string { return string(id) }

// Number menerima angka, string angka bersatuan ("1250 ft"), atau null.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*n = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = Number(util.ParseUnitNumber(s))
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = Number(f)
	return nil
}

// Date menerima "2006-01-02", RFC3339, atau LocalDateTime tanpa zona.
type Date struct{ time.Time }

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	"02/01/2006",
}

func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil || s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, _ := ParseDate(s)
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format("2006-01-02"))
}

type Well struct {
	PuitID       ID     `json:"puitId"`
	Name         string `json:"name"`
	Location     string `json:"location,omitempty"`
	Status       string `json:"status"`
	Phase        string `json:"phase,omitempty"`
	PlannedDepth Number `json:"profondeurTotalePrevue,omitempty"`
}

type OperationLine struct {
	Code         string `json:"code"`
	Rate         string `json:"rate"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	InitialDepth Number `json:"initialDepth"`
	FinalDepth   Number `json:"finalDepth"`
	Description  string `json:"description"`
}

type DailyCost struct {
	MudLogging     Number `json:"mudLogging"`
	DrillingMud    Number `json:"drillingMud"`
	SolidControl   Number `json:"solidControl"`
	Casing         Number `json:"casing"`
	Cementing      Number `json:"cementing"`
	Communications Number `json:"communications"`
	Security       Number `json:"security"`
	Total          Number `json:"dailyCost"`
}

// Buckets mengembalikan pasangan nama → nilai, urutan tetap.
func (c DailyCost) Buckets() []CostBucket {
	return []CostBucket{
		{"mudLogging", float64(c.MudLogging)},
		{"drillingMud", float64(c.DrillingMud)},
		{"solidControl", float64(c.SolidControl)},
		{"casing", float64(c.Casing)},
		{"cementing", float64(c.Cementing)},
		{"communications", float64(c.Communications)},
		{"security", float64(c.Security)},
	}
}

type CostBucket struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Report = satu rapport journalier. Field opsional: nil/kosong bila tidak dikirim.
type Report struct {
	ID               ID              `json:"id"`
	PuitID           ID              `json:"puitId,omitempty"`
	PuitName         string          `json:"puitName,omitempty"`
	Phase            string          `json:"phase"`
	Date             Date            `json:"date"`
	Day              Number          `json:"day"`
	Depth            Number          `json:"depth"`
	TVD              Number          `json:"tvd,omitempty"`
	DrillingHours    Number          `json:"drillingHours,omitempty"`
	DrillingProgress string          `json:"drillingProgress"`
	PlannedOperation string          `json:"plannedOperation"`
	Operations       []OperationLine `json:"operations,omitempty"`
	Remarks          []string        `json:"remarks,omitempty"`
	Anomalies        *string         `json:"anomalies,omitempty"`
	Analysis         *string         `json:"analysis,omitempty"`
	ExcelFile        *string         `json:"excelFile,omitempty"`
	DailyCost        *DailyCost      `json:"dailyCost,omitempty"`
}

// PhaseForecast = hasil /previsions/etat-par-phase (planned vs actual per phase).
type PhaseForecast struct {
	PhaseName        string  `json:"phaseName"`
	CoutPrevu        float64 `json:"coutPrevu"`
	CoutReel         float64 `json:"coutReel"`
	DelaiPrevu       float64 `json:"delaiPrevu"`
	DelaiReel        float64 `json:"delaiReel"`
	ProfondeurPrevue float64 `json:"profondeurPrevue,omitempty"`
	ProfondeurReelle float64 `json:"profondeurReelle,omitempty"`
	DepassementCout  bool    `json:"depassementCout"`
	DepassementDelai bool    `json:"depassementDelai"`
	EtatCout         string  `json:"etatCout,omitempty"`
	EtatDelai        string  `json:"etatDelai,omitempty"`
	CouleurCout      string  `json:"couleurCout,omitempty"`
	CouleurDelai     string  `json:"couleurDelai,omitempty"`
}

// Forecast = baris /previsions (rencana global per puits/phase).
type Forecast struct {
	ID         ID      `json:"id"`
	PuitID     ID      `json:"puitId,omitempty"`
	PhaseName  string  `json:"phaseName"`
	CoutPrevu  float64 `json:"coutPrevu"`
	DelaiPrevu float64 `json:"delaiPrevu"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignUpRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// SignInResponse = payload JWT dari backend (roles: ["ROLE_EXPERT"], ...).
type SignInResponse struct {
	Token     string   `json:"token"`
	ID        ID       `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Nom       string   `json:"nom,omitempty"`
	Prenom    string   `json:"prenom,omitempty"`
	Telephone string   `json:"telephone,omitempty"`
	Wilaya    string   `json:"wilaya,omitempty"`
	Roles     []string `json:"roles"`
}

type PasswordUpdate struct {
	Username        string `json:"username,omitempty"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Download = file rapport mentah (blob opaque, tidak di-parse).
type Download struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}
