package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"roombook/internal/models"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// SQLiteLedger persists bookings in a local sqlite file. It satisfies the
// same contract as MemoryLedger; single statements are atomic, so readers
// see either the pre- or post-state of any update.
type SQLiteLedger struct {
	db  *sql.DB
	log *zerolog.Logger
}

func NewSQLiteLedger(path string, logger *zerolog.Logger) (*SQLiteLedger, error) {
	// Создаем директорию для БД, если её нет
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Info().Str("path", path).Msg("sqlite ledger initialized")
	return &SQLiteLedger{db: db, log: logger}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS bookings (
            booking_id TEXT PRIMARY KEY,
            room_id TEXT NOT NULL,
            user_name TEXT NOT NULL,
            start_time TEXT NOT NULL,
            end_time TEXT NOT NULL,
            total_price INTEGER NOT NULL,
            status TEXT NOT NULL,
            created_at TEXT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS booking_seq (
            id INTEGER PRIMARY KEY AUTOINCREMENT
        )`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_room_id ON bookings(room_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_start_time ON bookings(start_time)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}

// NextID выдает монотонный идентификатор через AUTOINCREMENT-секвенцию.
// Идентификаторы никогда не переиспользуются.
func (l *SQLiteLedger) NextID(ctx context.Context) (string, error) {
	result, err := l.db.ExecContext(ctx, `INSERT INTO booking_seq DEFAULT VALUES`)
	if err != nil {
		return "", fmt.Errorf("failed to advance booking sequence: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("failed to get last insert id: %w", err)
	}
	return fmt.Sprintf("b%d", id), nil
}

func (l *SQLiteLedger) Insert(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (
                booking_id, room_id, user_name, start_time, end_time,
                total_price, status, created_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := l.db.ExecContext(ctx, query,
		booking.BookingID,
		booking.RoomID,
		booking.UserName,
		booking.StartTime.UTC().Format(time.RFC3339Nano),
		booking.EndTime.UTC().Format(time.RFC3339Nano),
		booking.TotalPrice,
		booking.Status,
		booking.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert booking %s: %w", booking.BookingID, ErrDuplicateID)
		}
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

func (l *SQLiteLedger) Get(ctx context.Context, bookingID string) (*models.Booking, error) {
	query := `SELECT booking_id, room_id, user_name, start_time, end_time,
                total_price, status, created_at
            FROM bookings WHERE booking_id = ?`
	booking, err := scanBooking(l.db.QueryRowContext(ctx, query, bookingID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get booking %s: %w", bookingID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

func (l *SQLiteLedger) ListAll(ctx context.Context) ([]*models.Booking, error) {
	query := `SELECT booking_id, room_id, user_name, start_time, end_time,
                total_price, status, created_at
            FROM bookings ORDER BY rowid`
	return l.queryBookings(ctx, query)
}

func (l *SQLiteLedger) ListByRoom(ctx context.Context, roomID string) ([]*models.Booking, error) {
	query := `SELECT booking_id, room_id, user_name, start_time, end_time,
                total_price, status, created_at
            FROM bookings WHERE room_id = ? ORDER BY rowid`
	return l.queryBookings(ctx, query, roomID)
}

func (l *SQLiteLedger) Update(ctx context.Context, booking *models.Booking) error {
	query := `UPDATE bookings SET room_id = ?, user_name = ?, start_time = ?,
                end_time = ?, total_price = ?, status = ?
            WHERE booking_id = ?`
	result, err := l.db.ExecContext(ctx, query,
		booking.RoomID,
		booking.UserName,
		booking.StartTime.UTC().Format(time.RFC3339Nano),
		booking.EndTime.UTC().Format(time.RFC3339Nano),
		booking.TotalPrice,
		booking.Status,
		booking.BookingID,
	)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update booking %s: %w", booking.BookingID, ErrNotFound)
	}
	return nil
}

func (l *SQLiteLedger) Close() error {
	return l.db.Close()
}

func (l *SQLiteLedger) queryBookings(ctx context.Context, query string, args ...any) ([]*models.Booking, error) {
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		out = append(out, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var b models.Booking
	var start, end, created string
	if err := row.Scan(&b.BookingID, &b.RoomID, &b.UserName, &start, &end,
		&b.TotalPrice, &b.Status, &created); err != nil {
		return nil, err
	}

	var err error
	if b.StartTime, err = time.Parse(time.RFC3339Nano, start); err != nil {
		return nil, fmt.Errorf("parse start_time: %w", err)
	}
	if b.EndTime, err = time.Parse(time.RFC3339Nano, end); err != nil {
		return nil, fmt.Errorf("parse end_time: %w", err)
	}
	if b.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &b, nil
}

func isUniqueViolation(err error) bool {
	// go-sqlite3 wraps UNIQUE failures in a driver error; matching on the
	// message avoids depending on the driver's error types here.
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
