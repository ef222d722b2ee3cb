package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"

	"github.com/xaenox/jarvis-bot/internal/knowledge"
	"github.com/xaenox/jarvis-bot/internal/models"
	"go.uber.org/zap"
)

//go:embed migrations.sql
var migrations embed.FS

// SQLSource loads the knowledge base from the knowledge_pairs table.
type SQLSource struct {
	db     *sql.DB
	driver string
	logger *zap.Logger
}

func NewSQLSource(db *sql.DB, driver string, logger *zap.Logger) *SQLSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLSource{db: db, driver: driver, logger: logger}
}

func (s *SQLSource) String() string {
	return s.driver + ":knowledge_pairs"
}

// placeholder returns the n-th (1-based) bind parameter for the driver.
func (s *SQLSource) placeholder(n int) string {
	if s.driver == DriverPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Migrate creates the knowledge table if it does not exist.
func (s *SQLSource) Migrate(ctx context.Context) error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %w", err)
	}
	return nil
}

func (s *SQLSource) Load(ctx context.Context) (*knowledge.Base, error) {
	query := `
		SELECT category, user_prompt, bot_reply
		FROM knowledge_pairs
		ORDER BY category_position, category, position`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying knowledge pairs: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var (
			category, userPrompt string
			botReply             sql.NullString
		)
		if err := rows.Scan(&category, &userPrompt, &botReply); err != nil {
			return nil, fmt.Errorf("error scanning knowledge pair: %w", err)
		}

		if n := len(categories); n == 0 || categories[n-1].Name != category {
			categories = append(categories, models.Category{Name: category})
		}
		last := &categories[len(categories)-1]
		last.Conversations = append(last.Conversations, models.ConversationPair{
			User: userPrompt,
			Bot:  botReply.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating knowledge pairs: %w", err)
	}

	return knowledge.NewBase(categories), nil
}

// Replace overwrites the stored knowledge with base in a single transaction.
func (s *SQLSource) Replace(ctx context.Context, base *knowledge.Base) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM knowledge_pairs`); err != nil {
		return fmt.Errorf("error clearing knowledge pairs: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO knowledge_pairs (category, category_position, position, user_prompt, bot_reply)
		VALUES (%s)`, strings.Join([]string{
		s.placeholder(1), s.placeholder(2), s.placeholder(3), s.placeholder(4), s.placeholder(5),
	}, ", "))

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("error preparing insert: %w", err)
	}
	defer stmt.Close()

	for ci, c := range base.Categories() {
		for pi, p := range c.Conversations {
			if _, err := stmt.ExecContext(ctx, c.Name, ci, pi, p.User, p.Bot); err != nil {
				return fmt.Errorf("error inserting pair %d of category %q: %w", pi, c.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing knowledge pairs: %w", err)
	}

	s.logger.Info("Knowledge base stored",
		zap.String("source", s.String()),
		zap.Int("categories", len(base.Categories())),
		zap.Int("pairs", base.Len()))
	return nil
}
