package adapter

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	chat "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/application/domain"
	repository "github.com/moaviak/sociohub-fyp-sub001/internal/pkg/chat/persistence/repository/port"
)

//go:embed schema.sql
var schemaDDL string

// PgChatRepository implements the chat store on Postgres via pgx. Every
// multi-statement invariant runs inside a single transaction.
type PgChatRepository struct {
	pool *pgxpool.Pool
}

var _ repository.ChatRepository = (*PgChatRepository)(nil)

func NewPgChatRepository(pool *pgxpool.Pool) *PgChatRepository {
	return &PgChatRepository{pool: pool}
}

// Migrate applies the chat schema. Statements are idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("chat schema: %w", err)
	}
	return nil
}

func (r *PgChatRepository) GetChat(ctx context.Context, chatID string) (*chat.Chat, error) {
	var c chat.Chat
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, kind, name, image_url, admin_user_id::text, created_at
		FROM chat.conversation WHERE id = $1::uuid
	`, chatID).Scan(&c.ID, &c.Kind, &c.Name, &c.ImageURL, &c.AdminUserID, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, chat.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateOneToOne relies on the partial unique index on the normalized pair:
// the race loser's insert hits the conflict, does nothing, and the follow-up
// select returns the winner's chat.
func (r *PgChatRepository) CreateOneToOne(ctx context.Context, userA, userB string) (*chat.Chat, bool, error) {
	low, high := chat.PairKey(userA, userB)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx)

	var c chat.Chat
	created := true
	err = tx.QueryRow(ctx, `
		INSERT INTO chat.conversation (kind, pair_low, pair_high)
		VALUES ($1, $2::uuid, $3::uuid)
		ON CONFLICT (pair_low, pair_high) WHERE kind = 0 DO NOTHING
		RETURNING id::text, kind, created_at
	`, chat.ChatKindOneOnOne, low, high).Scan(&c.ID, &c.Kind, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		created = false
		err = tx.QueryRow(ctx, `
			SELECT id::text, kind, created_at
			FROM chat.conversation
			WHERE kind = $1 AND pair_low = $2::uuid AND pair_high = $3::uuid
		`, chat.ChatKindOneOnOne, low, high).Scan(&c.ID, &c.Kind, &c.CreatedAt)
	}
	if err != nil {
		return nil, false, err
	}

	if created {
		for _, uid := range []string{low, high} {
			if _, err := tx.Exec(ctx, `
				INSERT INTO chat.participant (conversation_id, user_id)
				VALUES ($1::uuid, $2::uuid)
				ON CONFLICT (conversation_id, user_id) DO NOTHING
			`, c.ID, uid); err != nil {
				return nil, false, err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, err
	}
	return &c, created, nil
}

func (r *PgChatRepository) CreateGroup(ctx context.Context, adminUserID, name string, imageURL *string, participantIDs []string) (*chat.Chat, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var c chat.Chat
	err = tx.QueryRow(ctx, `
		INSERT INTO chat.conversation (kind, name, image_url, admin_user_id)
		VALUES ($1, $2, $3, $4::uuid)
		RETURNING id::text, kind, name, image_url, admin_user_id::text, created_at
	`, chat.ChatKindGroup, name, imageURL, adminUserID).Scan(&c.ID, &c.Kind, &c.Name, &c.ImageURL, &c.AdminUserID, &c.CreatedAt)
	if err != nil {
		return nil, err
	}

	for _, uid := range participantIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO chat.participant (conversation_id, user_id)
			VALUES ($1::uuid, $2::uuid)
			ON CONFLICT (conversation_id, user_id) DO NOTHING
		`, c.ID, uid); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PgChatRepository) UpdateGroup(ctx context.Context, chatID string, name, imageURL *string) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE chat.conversation
		SET name = COALESCE($2, name), image_url = COALESCE($3, image_url)
		WHERE id = $1::uuid AND kind = $4
	`, chatID, name, imageURL, chat.ChatKindGroup)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return chat.ErrNotFound
	}
	return nil
}

func (r *PgChatRepository) DeleteChat(ctx context.Context, chatID string) ([]string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	urls, err := collectURLs(ctx, tx, `
		SELECT a.url
		FROM chat.attachment a
		JOIN chat.message m ON m.id = a.message_id
		WHERE m.conversation_id = $1::uuid
	`, chatID)
	if err != nil {
		return nil, err
	}

	ct, err := tx.Exec(ctx, `DELETE FROM chat.conversation WHERE id = $1::uuid`, chatID)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, chat.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return urls, nil
}

func (r *PgChatRepository) IsParticipant(ctx context.Context, chatID, userID string) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM chat.participant
			WHERE conversation_id = $1::uuid AND user_id = $2::uuid
		)
	`, chatID, userID).Scan(&ok)
	return ok, err
}

func (r *PgChatRepository) ListParticipantIDs(ctx context.Context, chatID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id::text FROM chat.participant
		WHERE conversation_id = $1::uuid
		ORDER BY joined_at
	`, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStrings(rows)
}

func (r *PgChatRepository) ListChatIDsForUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT conversation_id::text FROM chat.participant
		WHERE user_id = $1::uuid
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStrings(rows)
}

func (r *PgChatRepository) AddParticipants(ctx context.Context, chatID string, userIDs []string) ([]string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	added := make([]string, 0, len(userIDs))
	for _, uid := range userIDs {
		ct, err := tx.Exec(ctx, `
			INSERT INTO chat.participant (conversation_id, user_id)
			VALUES ($1::uuid, $2::uuid)
			ON CONFLICT (conversation_id, user_id) DO NOTHING
		`, chatID, uid)
		if err != nil {
			return nil, err
		}
		if ct.RowsAffected() > 0 {
			added = append(added, uid)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return added, nil
}

func (r *PgChatRepository) RemoveParticipant(ctx context.Context, chatID, userID string) (bool, error) {
	ct, err := r.pool.Exec(ctx, `
		DELETE FROM chat.participant
		WHERE conversation_id = $1::uuid AND user_id = $2::uuid
	`, chatID, userID)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

// SaveMessage gates the insert on current participation inside the same
// statement, so a send racing a removal cannot land a message from a
// non-participant.
func (r *PgChatRepository) SaveMessage(ctx context.Context, m chat.Message) (*chat.Message, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	createdAt := m.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO chat.message (conversation_id, author_id, content, created_at)
		SELECT $1::uuid, $2::uuid, $3, $4
		WHERE EXISTS (
			SELECT 1 FROM chat.participant
			WHERE conversation_id = $1::uuid AND user_id = $2::uuid
		)
		RETURNING id::text, created_at
	`, m.ChatID, m.AuthorID, m.Content, createdAt).Scan(&m.ID, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, chat.ErrNotParticipant
	}
	if err != nil {
		return nil, err
	}

	for i := range m.Attachments {
		a := &m.Attachments[i]
		a.MessageID = m.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO chat.attachment (message_id, url, kind, name, size)
			VALUES ($1::uuid, $2, $3, $4, $5)
			RETURNING id::text
		`, a.MessageID, a.URL, a.Kind, a.Name, a.Size).Scan(&a.ID)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	m.ReadBy = nil
	return &m, nil
}

func (r *PgChatRepository) GetMessage(ctx context.Context, messageID string) (*chat.Message, error) {
	var m chat.Message
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, conversation_id::text, author_id::text, content, created_at
		FROM chat.message WHERE id = $1::uuid
	`, messageID).Scan(&m.ID, &m.ChatID, &m.AuthorID, &m.Content, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, chat.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	msgs := []chat.Message{m}
	if err := r.loadRelations(ctx, msgs); err != nil {
		return nil, err
	}
	return &msgs[0], nil
}

func (r *PgChatRepository) ListMessages(ctx context.Context, chatID string, limit, offset int) ([]chat.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, conversation_id::text, author_id::text, content, created_at
		FROM chat.message
		WHERE conversation_id = $1::uuid
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, chatID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		var m chat.Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.AuthorID, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	if err := r.loadRelations(ctx, msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *PgChatRepository) DeleteMessage(ctx context.Context, messageID string) (string, []string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", nil, err
	}
	defer tx.Rollback(ctx)

	var chatID string
	err = tx.QueryRow(ctx, `
		SELECT conversation_id::text FROM chat.message WHERE id = $1::uuid
	`, messageID).Scan(&chatID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil, chat.ErrNotFound
	}
	if err != nil {
		return "", nil, err
	}

	urls, err := collectURLs(ctx, tx, `
		SELECT url FROM chat.attachment WHERE message_id = $1::uuid
	`, messageID)
	if err != nil {
		return "", nil, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM chat.message WHERE id = $1::uuid`, messageID); err != nil {
		return "", nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", nil, err
	}
	return chatID, urls, nil
}

// MarkRead inserts receipts for every unread foreign-authored message in one
// statement. The primary key on (message_id, user_id) plus insert-only access
// keeps the read-by set monotonic.
func (r *PgChatRepository) MarkRead(ctx context.Context, chatID, userID string) (int, error) {
	ct, err := r.pool.Exec(ctx, `
		INSERT INTO chat.message_read (message_id, user_id)
		SELECT m.id, $2::uuid
		FROM chat.message m
		WHERE m.conversation_id = $1::uuid
		  AND m.author_id <> $2::uuid
		  AND NOT EXISTS (
			SELECT 1 FROM chat.message_read r
			WHERE r.message_id = m.id AND r.user_id = $2::uuid
		  )
		ON CONFLICT (message_id, user_id) DO NOTHING
	`, chatID, userID)
	if err != nil {
		return 0, err
	}
	return int(ct.RowsAffected()), nil
}

func (r *PgChatRepository) ListDirectory(ctx context.Context, userID string) ([]repository.DirectoryEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id::text, c.kind, c.name, c.image_url, c.admin_user_id::text, c.created_at,
		       lm.id::text, lm.author_id::text, lm.content, lm.created_at,
		       (
			 SELECT count(*) FROM chat.message m
			 WHERE m.conversation_id = c.id
			   AND m.author_id <> $1::uuid
			   AND NOT EXISTS (
				SELECT 1 FROM chat.message_read r
				WHERE r.message_id = m.id AND r.user_id = $1::uuid
			   )
		       ) AS unread
		FROM chat.conversation c
		JOIN chat.participant p ON p.conversation_id = c.id AND p.user_id = $1::uuid
		LEFT JOIN LATERAL (
			SELECT id, author_id, content, created_at
			FROM chat.message
			WHERE conversation_id = c.id
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		) lm ON true
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []repository.DirectoryEntry
	for rows.Next() {
		var (
			e         repository.DirectoryEntry
			lmID      *string
			lmAuthor  *string
			lmContent *string
			lmCreated *time.Time
		)
		if err := rows.Scan(
			&e.Chat.ID, &e.Chat.Kind, &e.Chat.Name, &e.Chat.ImageURL, &e.Chat.AdminUserID, &e.Chat.CreatedAt,
			&lmID, &lmAuthor, &lmContent, &lmCreated, &e.UnreadCount,
		); err != nil {
			return nil, err
		}
		if lmID != nil {
			e.LastMessage = &chat.Message{
				ID:        *lmID,
				ChatID:    e.Chat.ID,
				AuthorID:  *lmAuthor,
				Content:   lmContent,
				CreatedAt: *lmCreated,
			}
		}
		entries = append(entries, e)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	lastMsgs := make([]chat.Message, 0, len(entries))
	for _, e := range entries {
		if e.LastMessage != nil {
			lastMsgs = append(lastMsgs, *e.LastMessage)
		}
	}
	if err := r.loadRelations(ctx, lastMsgs); err != nil {
		return nil, err
	}
	byID := make(map[string]*chat.Message, len(lastMsgs))
	for i := range lastMsgs {
		byID[lastMsgs[i].ID] = &lastMsgs[i]
	}
	for i := range entries {
		if entries[i].LastMessage != nil {
			entries[i].LastMessage = byID[entries[i].LastMessage.ID]
		}
	}
	return entries, nil
}

func (r *PgChatRepository) ListOneToOnePeers(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT (CASE WHEN c.pair_low = $1::uuid THEN c.pair_high ELSE c.pair_low END)::text
		FROM chat.conversation c
		WHERE c.kind = $2 AND (c.pair_low = $1::uuid OR c.pair_high = $1::uuid)
		ORDER BY c.created_at DESC
	`, userID, chat.ChatKindOneOnOne)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStrings(rows)
}

// loadRelations fills attachments and read-by sets for the given messages.
func (r *PgChatRepository) loadRelations(ctx context.Context, msgs []chat.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	ids := make([]string, 0, len(msgs))
	idx := make(map[string]*chat.Message, len(msgs))
	for i := range msgs {
		ids = append(ids, msgs[i].ID)
		idx[msgs[i].ID] = &msgs[i]
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id::text, message_id::text, url, kind, name, size
		FROM chat.attachment
		WHERE message_id = ANY($1::uuid[])
		ORDER BY id
	`, ids)
	if err != nil {
		return err
	}
	for rows.Next() {
		var a chat.Attachment
		if err := rows.Scan(&a.ID, &a.MessageID, &a.URL, &a.Kind, &a.Name, &a.Size); err != nil {
			rows.Close()
			return err
		}
		if m := idx[a.MessageID]; m != nil {
			m.Attachments = append(m.Attachments, a)
		}
	}
	rows.Close()
	if rows.Err() != nil {
		return rows.Err()
	}

	rows, err = r.pool.Query(ctx, `
		SELECT message_id::text, user_id::text
		FROM chat.message_read
		WHERE message_id = ANY($1::uuid[])
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var messageID, userID string
		if err := rows.Scan(&messageID, &userID); err != nil {
			return err
		}
		if m := idx[messageID]; m != nil {
			m.ReadBy = append(m.ReadBy, userID)
		}
	}
	return rows.Err()
}

func collectURLs(ctx context.Context, tx pgx.Tx, query string, args ...any) ([]string, error) {
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStrings(rows)
}

func scanStrings(rows pgx.Rows) ([]string, error) {
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
