package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Ensure demo users exist (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}
	// Seed a few offers so a fresh install has a feed to look at
	if err := seedOffers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('USER','ADMIN')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- Offers: common columns plus a per-variant JSON payload
CREATE TABLE IF NOT EXISTS offers(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  type TEXT NOT NULL CHECK (type IN ('job','service','product')),
  summary TEXT NOT NULL,
  details TEXT,
  address TEXT,
  lat REAL,
  lng REAL,
  expires_at TEXT,
  applicants INTEGER NOT NULL DEFAULT 0 CHECK (applicants >= 0),
  phone TEXT,
  email TEXT,
  payload_json TEXT NOT NULL,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_offers_user       ON offers(user_id);
CREATE INDEX IF NOT EXISTS idx_offers_type       ON offers(type);
CREATE INDEX IF NOT EXISTS idx_offers_created_at ON offers(created_at);

-- Saved offers: plain membership set per user
CREATE TABLE IF NOT EXISTS saved_offers(
  user_id  TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  offer_id TEXT NOT NULL REFERENCES offers(id) ON DELETE CASCADE,
  created_at TEXT,
  PRIMARY KEY (user_id, offer_id)
);

-- Durable tier for the geocoding cache (expiry lives in the value)
CREATE TABLE IF NOT EXISTS kv_cache(
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at TEXT
);
`
	_, err := db.Exec(schema)
	return err
}

// seedUsers ensures two USERs and one ADMIN exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hash string
	}
	mk := func(id, email, name, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Email: email, Name: name, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-alice", "alice@offerlens.test", "Alice", "USER", "Passw0rd!"),
		mk("u-bob", "bob@offerlens.test", "Bob", "USER", "Passw0rd!"),
		mk("u-admin", "admin@offerlens.test", "Admin", "ADMIN", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// seedOffers inserts three demo offers for the alice account on an
// empty database.
func seedOffers(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM offers`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo offers")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO offers(id,user_id,type,summary,details,address,lat,lng,expires_at,applicants,payload_json,created_at) VALUES
	  ('of-barista','u-alice','job','Barista wanted, weekend shifts','Experience with espresso machines a plus',
	   'Walnut Street 210, Philadelphia',39.9496,-75.1719,'2099-06-30',3,
	   '{"title":"Barista","company":"Beanery","skills":["espresso","latte art"],"salaryAmount":16,"salaryUnit":"hour"}',
	   '2024-05-01T09:00:00Z'),
	  ('of-tutoring','u-alice','service','Math tutoring for high schoolers',NULL,
	   'Baltimore Avenue 4500, Philadelphia',39.9487,-75.2190,NULL,1,
	   '{"name":"Math tutoring","provider":"Dana K.","priceAmount":30,"priceUnit":"hour"}',
	   '2024-05-02T10:30:00Z'),
	  ('of-bike','u-alice','product','City bike, barely used',NULL,
	   NULL,NULL,NULL,NULL,0,
	   '{"name":"City bike","brand":"Trek","price":220,"condition":"like new"}',
	   '2024-05-03T16:45:00Z')`)

	return tx.Commit()
}
