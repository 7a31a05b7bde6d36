package model

import "time"

// Genre is one of ten fixed category labels attached to a recommendation.
// The set is closed — anything outside it is rejected at the API boundary.
type Genre string

const (
	GenreHorror      Genre = "horror"
	GenreAction      Genre = "action"
	GenreComedy      Genre = "comedy"
	GenreDrama       Genre = "drama"
	GenreSciFi       Genre = "sci-fi"
	GenreRomance     Genre = "romance"
	GenreThriller    Genre = "thriller"
	GenreDocumentary Genre = "documentary"
	GenreAnimation   Genre = "animation"
	GenreOther       Genre = "other"
)

// Genres lists every valid genre, in display order.
var Genres = []Genre{
	GenreHorror, GenreAction, GenreComedy, GenreDrama, GenreSciFi,
	GenreRomance, GenreThriller, GenreDocumentary, GenreAnimation, GenreOther,
}

// IsValid reports whether g is a member of the closed genre set.
func (g Genre) IsValid() bool {
	for _, v := range Genres {
		if g == v {
			return true
		}
	}
	return false
}

// Recommendation is a user-submitted media pick.
//
// OwnerExternalID ties the record to its creator and is immutable.
// OwnerDisplayName and OwnerAvatarURL are a denormalized snapshot of the
// owner taken at creation time — they are deliberately NOT kept in sync
// with later profile edits. CreatedAt is the sole sort key (descending,
// most recent first). The only mutation after creation is the admin-only
// staff-pick toggle; there is no edit operation.
type Recommendation struct {
	ID               string    `json:"id"               db:"id"`
	OwnerExternalID  string    `json:"ownerExternalId"  db:"owner_external_id"`
	OwnerDisplayName string    `json:"ownerDisplayName" db:"owner_display_name"`
	OwnerAvatarURL   string    `json:"ownerAvatarUrl"   db:"owner_avatar_url"` // may be empty
	Title            string    `json:"title"            db:"title"`
	Genre            Genre     `json:"genre"            db:"genre"`
	Link             string    `json:"link"             db:"link"`
	Blurb            string    `json:"blurb"            db:"blurb"`
	IsStaffPick      bool      `json:"isStaffPick"      db:"is_staff_pick"`
	CreatedAt        time.Time `json:"createdAt"        db:"created_at"`
}
