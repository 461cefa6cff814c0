package mongodb

import (
    "context"

    "gamevault/internal/domain/games"

    "go.mongodb.org/mongo-driver/v2/mongo"
)

type documentIterator struct {
    cursor *mongo.Cursor
}

func (it *documentIterator) Next(ctx context.Context) (bool, games.SearchDocument, error) {
    if !it.cursor.Next(ctx) {
        if err := it.cursor.Err(); err != nil {
            return false, games.SearchDocument{}, err
        }
        return false, games.SearchDocument{}, nil
    }

    var documentBSON searchDocumentBSON
    if err := it.cursor.Decode(&documentBSON); err != nil {
        return false, games.SearchDocument{}, err
    }

    return true, toSearchDocument(documentBSON), nil
}

func (it *documentIterator) Close(ctx context.Context) error {
    return it.cursor.Close(ctx)
}
