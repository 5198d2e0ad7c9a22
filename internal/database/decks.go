package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"deckgen/internal/deck"
)

var ErrDeckNotFound = errors.New("deck not found")

// batchSize bounds the rows sent per INSERT / InsertMany call.
const batchSize = 1000

var deckRowColumns = []string{"deck_id", "idx", "q", "r"}

type deckDoc struct {
	ID        string    `bson:"_id"`
	Header    int64     `bson:"header"`
	RowCount  int64     `bson:"row_count"`
	QuerySpec string    `bson:"query_spec"`
	RatioSpec string    `bson:"ratio_spec"`
	CreatedAt time.Time `bson:"created_at"`
}

type deckRowDoc struct {
	DeckID string `bson:"deck_id"`
	Idx    int64  `bson:"idx"`
	Q      int64  `bson:"q"`
	R      int64  `bson:"r"`
}

func mongoDatabase(db DatabaseDriver) string {
	if md, ok := db.(*MongoDriver); ok {
		return md.database()
	}
	return ""
}

// EnsureSchema creates the deck tables on SQL stores. Mongo collections need
// no schema, only the row index.
func EnsureSchema(ctx context.Context, db DatabaseDriver) error {
	if md, ok := db.(*MongoDriver); ok {
		_, err := md.client.Database(md.database()).Collection(rowsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "deck_id", Value: 1}, {Key: "idx", Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		return err
	}

	txFunc := func(tx interface{}) error {
		switch tx := tx.(type) {
		case pgx.Tx:
			if _, err := tx.Exec(ctx, GetDecksSchema()); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, GetDeckRowsSchema())
			return err
		case *sql.Tx:
			if _, err := tx.ExecContext(ctx, GetDecksSchema()); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, GetDeckRowsSchema())
			return err
		default:
			return fmt.Errorf("unsupported transaction type: %T", tx)
		}
	}
	return db.ExecuteTx(ctx, txFunc)
}

// SaveDeck stores d and its rows in one transaction. A deck without an ID
// gets a new UUID, which is returned.
func SaveDeck(ctx context.Context, db DatabaseDriver, d *deck.Deck) (string, error) {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	rowCount := int64(len(d.Rows))

	txFunc := func(tx interface{}) error {
		switch tx := tx.(type) {
		case pgx.Tx:
			_, err := tx.Exec(ctx,
				"INSERT INTO decks (id, header, row_count, query_spec, ratio_spec, created_at) VALUES ($1, $2, $3, $4, $5, $6)",
				d.ID, d.Header, rowCount, d.QuerySpec, d.RatioSpec, d.CreatedAt)
			if err != nil {
				return err
			}
			_, err = tx.CopyFrom(
				ctx,
				pgx.Identifier{"deck_rows"},
				deckRowColumns,
				pgx.CopyFromSlice(len(d.Rows), func(i int) ([]any, error) {
					return []any{d.ID, int64(i), d.Rows[i].Query, d.Rows[i].Result}, nil
				}),
			)
			return err
		case *sql.Tx:
			_, err := tx.ExecContext(ctx,
				"INSERT INTO decks (id, header, row_count, query_spec, ratio_spec, created_at) VALUES (?, ?, ?, ?, ?, ?)",
				d.ID, d.Header, rowCount, d.QuerySpec, d.RatioSpec, d.CreatedAt)
			if err != nil {
				return err
			}
			for start := 0; start < len(d.Rows); start += batchSize {
				end := min(start+batchSize, len(d.Rows))
				stmt, args := insertRowsStatement(d.ID, start, d.Rows[start:end])
				if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
					return err
				}
			}
			return nil
		case mongo.SessionContext:
			mdb := tx.Client().Database(mongoDatabase(db))
			_, err := mdb.Collection(decksCollection).InsertOne(tx, bson.M{
				"_id":        d.ID,
				"header":     d.Header,
				"row_count":  rowCount,
				"query_spec": d.QuerySpec,
				"ratio_spec": d.RatioSpec,
				"created_at": d.CreatedAt,
			})
			if err != nil {
				return err
			}
			for start := 0; start < len(d.Rows); start += batchSize {
				end := min(start+batchSize, len(d.Rows))
				if _, err := mdb.Collection(rowsCollection).InsertMany(tx, rowDocs(d.ID, start, d.Rows[start:end])); err != nil {
					return err
				}
			}
			return nil
		default:
			return fmt.Errorf("unsupported transaction type: %T", tx)
		}
	}

	if err := db.ExecuteTx(ctx, txFunc); err != nil {
		return d.ID, fmt.Errorf("save deck %s: %w", d.ID, err)
	}
	return d.ID, nil
}

// insertRowsStatement builds one multi-row INSERT for rows starting at index offset.
func insertRowsStatement(deckID string, offset int, rows []deck.Row) (string, []interface{}) {
	valueStrings := make([]string, 0, len(rows))
	valueArgs := make([]interface{}, 0, len(rows)*len(deckRowColumns))
	for i, row := range rows {
		valueStrings = append(valueStrings, "(?, ?, ?, ?)")
		valueArgs = append(valueArgs, deckID, int64(offset+i), row.Query, row.Result)
	}
	stmt := fmt.Sprintf("INSERT INTO deck_rows (%s) VALUES %s", strings.Join(deckRowColumns, ", "), strings.Join(valueStrings, ","))
	return stmt, valueArgs
}

func rowDocs(deckID string, offset int, rows []deck.Row) []interface{} {
	docs := make([]interface{}, len(rows))
	for i, row := range rows {
		docs[i] = deckRowDoc{DeckID: deckID, Idx: int64(offset + i), Q: row.Query, R: row.Result}
	}
	return docs
}

// LoadDeck reads a stored deck with its rows in generation order.
func LoadDeck(ctx context.Context, db DatabaseDriver, id string) (*deck.Deck, error) {
	d := &deck.Deck{ID: id}
	var rowCount int64

	txFunc := func(tx interface{}) error {
		switch tx := tx.(type) {
		case pgx.Tx:
			err := tx.QueryRow(ctx,
				"SELECT header, row_count, query_spec, ratio_spec, created_at FROM decks WHERE id = $1", id).
				Scan(&d.Header, &rowCount, &d.QuerySpec, &d.RatioSpec, &d.CreatedAt)
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrDeckNotFound
			}
			if err != nil {
				return err
			}
			rows, err := tx.Query(ctx, "SELECT q, r FROM deck_rows WHERE deck_id = $1 ORDER BY idx", id)
			if err != nil {
				return err
			}
			defer rows.Close()
			d.Rows = make([]deck.Row, 0, rowCount)
			for rows.Next() {
				var row deck.Row
				if err := rows.Scan(&row.Query, &row.Result); err != nil {
					return err
				}
				d.Rows = append(d.Rows, row)
			}
			return rows.Err()
		case *sql.Tx:
			err := tx.QueryRowContext(ctx,
				"SELECT header, row_count, query_spec, ratio_spec, created_at FROM decks WHERE id = ?", id).
				Scan(&d.Header, &rowCount, &d.QuerySpec, &d.RatioSpec, &d.CreatedAt)
			if errors.Is(err, sql.ErrNoRows) {
				return ErrDeckNotFound
			}
			if err != nil {
				return err
			}
			rows, err := tx.QueryContext(ctx, "SELECT q, r FROM deck_rows WHERE deck_id = ? ORDER BY idx", id)
			if err != nil {
				return err
			}
			defer rows.Close()
			d.Rows = make([]deck.Row, 0, rowCount)
			for rows.Next() {
				var row deck.Row
				if err := rows.Scan(&row.Query, &row.Result); err != nil {
					return err
				}
				d.Rows = append(d.Rows, row)
			}
			return rows.Err()
		case mongo.SessionContext:
			mdb := tx.Client().Database(mongoDatabase(db))
			var doc deckDoc
			err := mdb.Collection(decksCollection).FindOne(tx, bson.M{"_id": id}).Decode(&doc)
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrDeckNotFound
			}
			if err != nil {
				return err
			}
			d.Header, rowCount, d.QuerySpec, d.RatioSpec, d.CreatedAt = doc.Header, doc.RowCount, doc.QuerySpec, doc.RatioSpec, doc.CreatedAt

			cursor, err := mdb.Collection(rowsCollection).Find(tx, bson.M{"deck_id": id}, options.Find().SetSort(bson.D{{Key: "idx", Value: 1}}))
			if err != nil {
				return err
			}
			var docs []deckRowDoc
			if err := cursor.All(tx, &docs); err != nil {
				return err
			}
			d.Rows = make([]deck.Row, len(docs))
			for i, doc := range docs {
				d.Rows[i] = deck.Row{Query: doc.Q, Result: doc.R}
			}
			return nil
		default:
			return fmt.Errorf("unsupported transaction type: %T", tx)
		}
	}

	if err := db.ExecuteTx(ctx, txFunc); err != nil {
		if errors.Is(err, ErrDeckNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrDeckNotFound, id)
		}
		return nil, fmt.Errorf("load deck %s: %w", id, err)
	}
	if err := checkLoaded(d, rowCount); err != nil {
		return nil, fmt.Errorf("load deck %s: %w", id, err)
	}
	return d, nil
}

// checkLoaded holds stored decks to the same rules as text decks.
func checkLoaded(d *deck.Deck, rowCount int64) error {
	if int64(len(d.Rows)) != rowCount {
		return fmt.Errorf("%w: expected %d rows, found %d", deck.ErrMalformed, rowCount, len(d.Rows))
	}
	return d.Validate()
}
