package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"catalog-api/internal/database"
	"catalog-api/internal/model"
)

type ConversationRepository struct {
	pool *pgxpool.Pool
}

func NewConversationRepository(pool *pgxpool.Pool) *ConversationRepository {
	return &ConversationRepository{pool: pool}
}

const conversationColumns = `id, name, picture, is_group, users, admin_id, latest_message_id, created_at, updated_at`

func scanConversation(row pgx.Row) (model.Conversation, error) {
	var c model.Conversation
	err := row.Scan(&c.ID, &c.Name, &c.Picture, &c.IsGroup, &c.Users, &c.AdminID, &c.LatestMessageID,
		&c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *ConversationRepository) ListForUser(ctx context.Context, userID string) ([]model.Conversation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+conversationColumns+` FROM conversations WHERE $1 = ANY(users) ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	out := make([]model.Conversation, 0)
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ConversationRepository) FindByID(ctx context.Context, id string) (model.Conversation, error) {
	c, err := scanConversation(r.pool.QueryRow(ctx,
		`SELECT `+conversationColumns+` FROM conversations WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Conversation{}, model.ErrNotFound
	}
	if err != nil {
		return model.Conversation{}, fmt.Errorf("find conversation by id: %w", err)
	}
	return c, nil
}

// FindDirect returns the one-to-one conversation between exactly a and b, if any.
func (r *ConversationRepository) FindDirect(ctx context.Context, a string, b string) (model.Conversation, error) {
	c, err := scanConversation(r.pool.QueryRow(ctx,
		`SELECT `+conversationColumns+` FROM conversations
		 WHERE NOT is_group AND users @> ARRAY[$1, $2]::uuid[] AND cardinality(users) = 2
		 LIMIT 1`, a, b))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Conversation{}, model.ErrNotFound
	}
	if err != nil {
		return model.Conversation{}, fmt.Errorf("find direct conversation: %w", err)
	}
	return c, nil
}

func (r *ConversationRepository) Create(ctx context.Context, c model.Conversation) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO conversations (id, name, picture, is_group, users, admin_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5::uuid[], $6, $7, $8)`,
		c.ID, c.Name, c.Picture, c.IsGroup, c.Users, c.AdminID, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create conversation: %w", err)
	}
	return nil
}

func (r *ConversationRepository) Update(ctx context.Context, id string, upd model.ConversationUpdate) (model.Conversation, error) {
	var users []string
	if upd.Users != nil {
		users = *upd.Users
	}

	c, err := scanConversation(r.pool.QueryRow(ctx,
		`UPDATE conversations SET
		     name = COALESCE($2, name),
		     picture = COALESCE($3, picture),
		     users = CASE WHEN $4 THEN $5::uuid[] ELSE users END,
		     updated_at = $6
		 WHERE id = $1
		 RETURNING `+conversationColumns,
		id, upd.Name, upd.Picture, upd.Users != nil, users, time.Now().UTC()))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Conversation{}, model.ErrNotFound
	}
	if err != nil {
		return model.Conversation{}, fmt.Errorf("update conversation: %w", err)
	}
	return c, nil
}

func (r *ConversationRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM conversations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// AddMessage inserts the message and advances the conversation's latest message in one transaction.
func (r *ConversationRepository) AddMessage(ctx context.Context, m model.Message) error {
	return database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO messages (id, conversation_id, sender_id, message, files, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $6)`,
			m.ID, m.ConversationID, m.SenderID, m.Message, m.Files, m.CreatedAt); err != nil {
			return fmt.Errorf("insert message: %w", err)
		}

		tag, err := tx.Exec(ctx,
			`UPDATE conversations SET latest_message_id = $2, updated_at = $3 WHERE id = $1`,
			m.ConversationID, m.ID, m.CreatedAt)
		if err != nil {
			return fmt.Errorf("set latest message: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrNotFound
		}
		return nil
	})
}

func (r *ConversationRepository) ListMessages(ctx context.Context, conversationID string) ([]model.Message, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, conversation_id, sender_id, message, files, created_at, updated_at
		 FROM messages WHERE conversation_id = $1 ORDER BY created_at`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	out := make([]model.Message, 0)
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Message, &m.Files, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		if m.Files == nil {
			m.Files = []string{}
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
