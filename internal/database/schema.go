package database

import (
	"context"
	"database/sql"
)

// schema holds the CREATE TABLE statements for the service. Statements
// are idempotent so EnsureSchema can run on every startup. The UNIQUE
// key on bookings(user_id, event_id) enforces the one-booking-per-event
// rule at the store level; handler checks exist only to produce a
// friendlier error message.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name          VARCHAR(255) NOT NULL,
		email         VARCHAR(255) NOT NULL UNIQUE,
		phone         VARCHAR(32)  NOT NULL,
		student_id    VARCHAR(64)  NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role          ENUM('student','admin') NOT NULL DEFAULT 'student',
		created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS events (
		id                   BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		title                VARCHAR(255) NOT NULL,
		description          TEXT NOT NULL,
		date                 DATE NOT NULL,
		time                 VARCHAR(32) NOT NULL,
		location             VARCHAR(255) NOT NULL,
		max_participants     INT UNSIGNED NOT NULL,
		current_participants INT UNSIGNED NOT NULL DEFAULT 0,
		price                INT UNSIGNED NOT NULL DEFAULT 0,
		image                VARCHAR(512) NOT NULL DEFAULT '',
		type                 ENUM('upcoming','previous') NOT NULL DEFAULT 'upcoming',
		instructor           VARCHAR(255) NOT NULL DEFAULT '',
		created_at           DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at           DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_events_type_date (type, date)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id             BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id        BIGINT UNSIGNED NOT NULL,
		event_id       BIGINT UNSIGNED NOT NULL,
		amount         INT UNSIGNED NOT NULL DEFAULT 0,
		payment_status ENUM('pending','completed','failed') NOT NULL DEFAULT 'pending',
		payment_id     VARCHAR(128) NULL,
		created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_bookings_user_event (user_id, event_id),
		CONSTRAINT fk_bookings_user  FOREIGN KEY (user_id)  REFERENCES users(id)  ON DELETE CASCADE,
		CONSTRAINT fk_bookings_event FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS email_history (
		id              BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id         BIGINT UNSIGNED NOT NULL,
		booking_id      BIGINT UNSIGNED NOT NULL,
		email_type      VARCHAR(64) NOT NULL,
		recipient_email VARCHAR(255) NOT NULL,
		subject         VARCHAR(512) NOT NULL,
		body            MEDIUMTEXT NOT NULL,
		status          ENUM('sent','failed') NOT NULL,
		sent_at         DATETIME NULL,
		created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_email_history_user (user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates all tables if they do not already exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
