package repos

import (
	"github.com/jmoiron/sqlx"

	"offerlens/internal/domain"
	applog "offerlens/internal/log"
)

// SavedRepo manages the per-user saved-offer identifier set.
type SavedRepo struct{ db *sqlx.DB }

func NewSavedRepo(db *sqlx.DB) *SavedRepo { return &SavedRepo{db: db} }

func (r *SavedRepo) Add(userID, offerID string) error {
	_, err := r.db.Exec(`
	  INSERT INTO saved_offers(user_id, offer_id, created_at)
	  VALUES(?, ?, CURRENT_TIMESTAMP)
	  ON CONFLICT(user_id, offer_id) DO NOTHING
	`, userID, offerID)
	return err
}

func (r *SavedRepo) Remove(userID, offerID string) error {
	_, err := r.db.Exec(`DELETE FROM saved_offers WHERE user_id=? AND offer_id=?`, userID, offerID)
	return err
}

func (r *SavedRepo) IDs(userID string) ([]string, error) {
	var out []string
	err := r.db.Select(&out, `
	  SELECT offer_id FROM saved_offers WHERE user_id=? ORDER BY created_at
	`, userID)
	return out, err
}

// ListOffers returns the saved offers themselves, newest save first.
func (r *SavedRepo) ListOffers(userID string) ([]domain.Offer, error) {
	var rows []offerRow
	err := r.db.Select(&rows, `
	  SELECT o.id, o.user_id, o.type, o.summary, o.details, o.address, o.lat, o.lng,
	         o.expires_at, o.applicants, o.phone, o.email, o.payload_json, o.created_at
	  FROM saved_offers s
	  JOIN offers o ON o.id = s.offer_id
	  WHERE s.user_id = ?
	  ORDER BY s.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Offer, 0, len(rows))
	for i := range rows {
		o, err := rows[i].toDomain()
		if err != nil {
			applog.Error(nil, "saved.row.decode.fail", err, map[string]any{"id": rows[i].ID})
			continue
		}
		out = append(out, o)
	}
	return out, nil
}
