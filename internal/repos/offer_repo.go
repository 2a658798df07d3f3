package repos

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"offerlens/internal/domain"
	applog "offerlens/internal/log"
)

type OfferRepo struct{ db *sqlx.DB }

func NewOfferRepo(db *sqlx.DB) *OfferRepo { return &OfferRepo{db: db} }

// offerRow is the flat sqlite shape of a domain.Offer.
type offerRow struct {
	ID          string          `db:"id"`
	UserID      string          `db:"user_id"`
	Type        string          `db:"type"`
	Summary     string          `db:"summary"`
	Details     sql.NullString  `db:"details"`
	Address     sql.NullString  `db:"address"`
	Lat         sql.NullFloat64 `db:"lat"`
	Lng         sql.NullFloat64 `db:"lng"`
	ExpiresAt   sql.NullString  `db:"expires_at"`
	Applicants  int             `db:"applicants"`
	Phone       sql.NullString  `db:"phone"`
	Email       sql.NullString  `db:"email"`
	PayloadJSON string          `db:"payload_json"`
	CreatedAt   string          `db:"created_at"`
}

const offerCols = `id, user_id, type, summary, details, address, lat, lng,
  expires_at, applicants, phone, email, payload_json, created_at`

func (r *OfferRepo) Insert(userID string, o domain.Offer) error {
	payload, err := marshalPayload(&o)
	if err != nil {
		return err
	}
	var address any
	var lat, lng any
	if o.Location != nil {
		address, lat, lng = o.Location.Address, o.Location.Lat, o.Location.Lng
	}
	_, err = r.db.Exec(`
	  INSERT INTO offers(`+offerCols+`)
	  VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?)
	`, o.ID, userID, string(o.Type), o.Summary, nullable(o.Details), address, lat, lng,
		nullable(o.ExpiresAt), o.Applicants, nullable(o.Phone), nullable(o.Email),
		payload, o.CreatedAt)
	return err
}

// ListByUser returns the user's offers in creation order. A row whose
// payload no longer parses is skipped and logged instead of failing the
// whole collection.
func (r *OfferRepo) ListByUser(userID string) ([]domain.Offer, error) {
	var rows []offerRow
	err := r.db.Select(&rows, `
	  SELECT `+offerCols+` FROM offers WHERE user_id = ? ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Offer, 0, len(rows))
	for i := range rows {
		o, err := rows[i].toDomain()
		if err != nil {
			applog.Error(nil, "offers.row.decode.fail", err, map[string]any{"id": rows[i].ID})
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (r *OfferRepo) Get(id string) (domain.Offer, error) {
	var row offerRow
	if err := r.db.Get(&row, `SELECT `+offerCols+` FROM offers WHERE id = ?`, id); err != nil {
		return domain.Offer{}, err
	}
	return row.toDomain()
}

// OwnedBy reports whether the offer belongs to the user.
func (r *OfferRepo) OwnedBy(id, userID string) (bool, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM offers WHERE id=? AND user_id=?`, id, userID)
	return n > 0, err
}

func (row *offerRow) toDomain() (domain.Offer, error) {
	o := domain.Offer{
		ID:         row.ID,
		Type:       domain.OfferType(row.Type),
		CreatedAt:  row.CreatedAt,
		Summary:    row.Summary,
		Details:    row.Details.String,
		ExpiresAt:  row.ExpiresAt.String,
		Applicants: row.Applicants,
		Phone:      row.Phone.String,
		Email:      row.Email.String,
	}
	if row.Address.Valid || row.Lat.Valid {
		o.Location = &domain.Location{
			Address: row.Address.String,
			Lat:     row.Lat.Float64,
			Lng:     row.Lng.Float64,
		}
	}
	if err := unmarshalPayload(&o, row.PayloadJSON); err != nil {
		return domain.Offer{}, err
	}
	return o, nil
}

func marshalPayload(o *domain.Offer) (string, error) {
	var v any
	switch o.Type {
	case domain.OfferTypeJob:
		if o.Job == nil {
			return "", fmt.Errorf("offer %s has no job payload", o.ID)
		}
		v = o.Job
	case domain.OfferTypeService:
		if o.Service == nil {
			return "", fmt.Errorf("offer %s has no service payload", o.ID)
		}
		v = o.Service
	case domain.OfferTypeProduct:
		if o.Product == nil {
			return "", fmt.Errorf("offer %s has no product payload", o.ID)
		}
		v = o.Product
	default:
		return "", fmt.Errorf("unknown offer type %q", o.Type)
	}
	b, err := json.Marshal(v)
	return string(b), err
}

func unmarshalPayload(o *domain.Offer, payload string) error {
	switch o.Type {
	case domain.OfferTypeJob:
		o.Job = &domain.Job{}
		return json.Unmarshal([]byte(payload), o.Job)
	case domain.OfferTypeService:
		o.Service = &domain.Service{}
		return json.Unmarshal([]byte(payload), o.Service)
	case domain.OfferTypeProduct:
		o.Product = &domain.Product{}
		return json.Unmarshal([]byte(payload), o.Product)
	}
	return fmt.Errorf("unknown offer type %q", o.Type)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
