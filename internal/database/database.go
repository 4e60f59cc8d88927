package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"currency_converter/internal/config"
	"currency_converter/internal/models"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// Соединение с базой данных журнала конвертаций
type DB struct {
	conn   *sql.DB
	logger *logrus.Logger
}

// Создаём новое соединение с базой данных
func New(cfg *config.DatabaseConfig, logger *logrus.Logger) (*DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Проверяем соединение
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db, err := newWithConn(conn, logger)
	if err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

// Оборачиваем готовое соединение и создаём схему
func newWithConn(conn *sql.DB, logger *logrus.Logger) (*DB, error) {
	db := &DB{
		conn:   conn,
		logger: logger,
	}

	if err := db.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

// Закрываем соединение с базой данных
func (db *DB) Close() error {
	return db.conn.Close()
}

// Создаём необходимые таблицы
func (db *DB) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS conversions (
			id UUID PRIMARY KEY,
			from_currency VARCHAR(10) NOT NULL,
			to_currency VARCHAR(10) NOT NULL,
			amount NUMERIC(30,8) NOT NULL,
			rate DOUBLE PRECISION NOT NULL,
			result NUMERIC(30,8) NOT NULL,
			rate_updated_at VARCHAR(64) NOT NULL DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_created_at ON conversions(created_at)`,
	}

	for _, query := range queries {
		if _, err := db.conn.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query %s: %w", query, err)
		}
	}

	return nil
}

// Записываем выполненную конвертацию в журнал
func (db *DB) SaveConversion(ctx context.Context, conversion *models.Conversion) (*models.JournalEntry, error) {
	query := `INSERT INTO conversions (id, from_currency, to_currency, amount, rate, result, rate_updated_at, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	entry := &models.JournalEntry{
		ID:            uuid.NewString(),
		From:          conversion.From,
		To:            conversion.To,
		Amount:        conversion.Amount,
		Rate:          conversion.Rate.Rate,
		Result:        conversion.Result,
		RateUpdatedAt: conversion.Rate.UpdatedAt,
		CreatedAt:     time.Now().UTC(),
	}

	_, err := db.conn.ExecContext(ctx, query,
		entry.ID, string(entry.From), string(entry.To), entry.Amount, entry.Rate, entry.Result,
		entry.RateUpdatedAt, entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save conversion: %w", err)
	}

	return entry, nil
}

// Получаем последние записи журнала, новые первыми
func (db *DB) ListConversions(ctx context.Context, limit int) ([]*models.JournalEntry, error) {
	query := `SELECT id, from_currency, to_currency, amount, rate, result, rate_updated_at, created_at
			  FROM conversions ORDER BY created_at DESC LIMIT $1`

	rows, err := db.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversions: %w", err)
	}
	defer rows.Close()

	var entries []*models.JournalEntry
	for rows.Next() {
		entry := &models.JournalEntry{}
		var from, to string
		err := rows.Scan(&entry.ID, &from, &to, &entry.Amount, &entry.Rate, &entry.Result,
			&entry.RateUpdatedAt, &entry.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversion: %w", err)
		}
		entry.From = models.CurrencyCode(from)
		entry.To = models.CurrencyCode(to)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate conversions: %w", err)
	}

	return entries, nil
}

// Удаляем записи журнала старше before, возвращаем количество удалённых
func (db *DB) DeleteConversionsBefore(ctx context.Context, before time.Time) (int64, error) {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM conversions WHERE created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete conversions: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	db.logger.WithFields(logrus.Fields{
		"before":  before,
		"deleted": deleted,
	}).Debug("Old conversions deleted")

	return deleted, nil
}
