package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// SQLStore manages Address data in a relational DB.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	stmts   map[string]*sql.Stmt
}

const (
	queryGetAllAddresses = "get-all-addresses"
	queryAddAddress      = "add-address"
	queryUpdateAddress   = "update-address-by-id"
	queryRemoveAddress   = "delete-address-by-id"
)

const (
	mysqlErrDataTooLong   = 1406
	mysqlErrOutOfRange    = 1264
	mysqlErrTruncatedData = 1265
)

// ErrNoMatchingRecord reports a bad lookup ID.
var ErrNoMatchingRecord = errors.New("no record matching ID")

var unprepared = map[string]string{
	queryGetAllAddresses: `
		SELECT
			a.id,
			a.street,
			a.city,
			a.state,
			a.zip,
			a.latitude,
			a.longitude
		FROM addresses a
		ORDER BY a.id ASC
	`,
	queryAddAddress: `
		INSERT INTO addresses (street, city, state, zip, latitude, longitude)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
	queryUpdateAddress: `
		UPDATE addresses
		SET street = ?, city = ?, state = ?, zip = ?, latitude = ?, longitude = ?
		WHERE id = ?
	`,
	queryRemoveAddress: `
		DELETE FROM addresses
		WHERE id = ?
	`,
}

// NewSQLStore returns a store with statements prepared against db. The
// addresses table must already exist; see Migrate.
func NewSQLStore(ctx context.Context, db *sql.DB, d dialect) (*SQLStore, error) {
	store := &SQLStore{
		db:      db,
		dialect: d,
		stmts:   make(map[string]*sql.Stmt, len(unprepared)),
	}

	for key, query := range unprepared {
		if key == queryAddAddress && d.returningID {
			query = strings.TrimSpace(query) + " RETURNING id"
		}
		stmt, err := db.PrepareContext(ctx, d.rebind(query))
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("error preparing statement %s: %w", key, err)
		}
		store.stmts[key] = stmt
	}

	return store, nil
}

// GetAllAddresses lists every stored Address in id order.
func (store *SQLStore) GetAllAddresses(ctx context.Context) ([]Address, error) {
	rows, err := store.stmts[queryGetAllAddresses].QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("SELECT Addresses failed: %w", err)
	}

	defer rows.Close()

	addresses := []Address{}
	for rows.Next() {
		var a Address
		err := rows.Scan(
			&a.ID,
			&a.Street,
			&a.City,
			&a.State,
			&a.Zip,
			&a.Latitude,
			&a.Longitude,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse row as Address: %w", err)
		}
		addresses = append(addresses, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating Address rows: %w", err)
	}

	return addresses, nil
}

// AddAddress stores a new Address and sets its ID.
func (store *SQLStore) AddAddress(ctx context.Context, a *Address) error {
	stmt := store.stmts[queryAddAddress]
	args := []interface{}{a.Street, a.City, a.State, a.Zip, a.Latitude, a.Longitude}

	if store.dialect.returningID {
		var id int64
		if err := stmt.QueryRowContext(ctx, args...).Scan(&id); err != nil {
			return classify(fmt.Errorf("INSERT Address failed: %w", err))
		}
		a.ID = id
		return nil
	}

	result, err := stmt.ExecContext(ctx, args...)
	if err != nil {
		return classify(fmt.Errorf("INSERT Address failed: %w", err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("error reading last INSERT id: %w", err)
	}

	a.ID = id
	return nil
}

// UpdateAddress overwrites every field of the Address with the given ID.
func (store *SQLStore) UpdateAddress(ctx context.Context, id int64, a *Address) error {
	stmt := store.stmts[queryUpdateAddress]
	result, err := stmt.ExecContext(ctx, a.Street, a.City, a.State, a.Zip, a.Latitude, a.Longitude, id)
	if err != nil {
		return classify(fmt.Errorf("UPDATE Address failed: %w", err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("UPDATE Address %d: %w", id, ErrNoMatchingRecord)
	}

	a.ID = id
	return nil
}

// RemoveAddress deletes the Address with the given ID.
func (store *SQLStore) RemoveAddress(ctx context.Context, id int64) error {
	stmt := store.stmts[queryRemoveAddress]
	result, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("error running DELETE Address: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("DELETE Address %d: %w", id, ErrNoMatchingRecord)
	}

	return nil
}

// Close cleans up prepared statements.
func (store *SQLStore) Close() {
	log.Println("store: closing prepared statements")
	for key, stmt := range store.stmts {
		if err := stmt.Close(); err != nil {
			log.Printf("store: failed to close stmt %s: %s", key, err)
		}
	}
}

// classify turns MySQL column overflow errors into client errors.
func classify(err error) error {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) {
		return err
	}

	switch mysqlErr.Number {
	case mysqlErrDataTooLong, mysqlErrTruncatedData:
		return &InputError{Message: "field value too long"}
	case mysqlErrOutOfRange:
		return &InputError{Message: "field value out of range"}
	}
	return err
}
