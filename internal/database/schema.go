package database

const (
	decksCollection = "decks"
	rowsCollection  = "deck_rows"
)

// The statements are kept apart because MySQL runs one statement per Exec.

func GetDecksSchema() string {
	return `
		CREATE TABLE IF NOT EXISTS decks (
			id VARCHAR(36) PRIMARY KEY,
			header BIGINT NOT NULL,
			row_count BIGINT NOT NULL,
			query_spec VARCHAR(255) NOT NULL,
			ratio_spec VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL
		);
	`
}

func GetDeckRowsSchema() string {
	return `
		CREATE TABLE IF NOT EXISTS deck_rows (
			deck_id VARCHAR(36) NOT NULL,
			idx BIGINT NOT NULL,
			q BIGINT NOT NULL,
			r BIGINT NOT NULL,
			PRIMARY KEY (deck_id, idx)
		);
	`
}

/*
MongoDB document structure:

decks: {
  _id: <string>,
  header: <number>,
  row_count: <number>,
  query_spec: <string>,
  ratio_spec: <string>,
  created_at: <date>
}

deck_rows: {
  deck_id: <string>,
  idx: <number>,
  q: <number>,
  r: <number>
}

*/
