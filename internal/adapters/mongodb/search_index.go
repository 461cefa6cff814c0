package mongodb

import (
    "context"
    "errors"

    "gamevault/internal/domain/games"

    "github.com/walletera/werrors"
    "go.mongodb.org/mongo-driver/v2/bson"
    "go.mongodb.org/mongo-driver/v2/mongo"
    "go.mongodb.org/mongo-driver/v2/mongo/options"
)

type searchDocumentBSON struct {
    Slug          string   `bson:"_id"`
    Name          string   `bson:"name"`
    Title         string   `bson:"title"`
    Description   string   `bson:"description"`
    Genre         string   `bson:"genre"`
    AverageRating *float64 `bson:"average_rating"`
    RatingCount   int      `bson:"rating_count"`
}

// SearchIndex mirrors game entities into a document collection keyed by
// slug, sortable by average rating.
type SearchIndex struct {
    client         *mongo.Client
    dbName         string
    collectionName string
}

func NewSearchIndex(client *mongo.Client, dbName string, collectionName string) *SearchIndex {
    return &SearchIndex{client: client, dbName: dbName, collectionName: collectionName}
}

func (s *SearchIndex) Index(ctx context.Context, document games.SearchDocument) werrors.WError {
    documentBSON := searchDocumentBSON{
        Slug:          document.Slug,
        Name:          document.Name,
        Title:         document.Title,
        Description:   document.Description,
        Genre:         document.Genre,
        AverageRating: document.AverageRating,
        RatingCount:   document.RatingCount,
    }
    _, err := s.collection().InsertOne(ctx, documentBSON)
    if err != nil {
        if mongo.IsDuplicateKeyError(err) {
            // already indexed; keep the existing document and its
            // aggregated rating fields
            return nil
        }
        return werrors.NewRetryableInternalError("failed to index game: %s", err.Error())
    }
    return nil
}

func (s *SearchIndex) Update(ctx context.Context, slug string, update games.DocumentUpdate) (bool, werrors.WError) {
    set := bson.M{}
    if update.Name != nil {
        set["name"] = *update.Name
    }
    if update.Title != nil {
        set["title"] = *update.Title
    }
    if update.Description != nil {
        set["description"] = *update.Description
    }
    if update.Genre != nil {
        set["genre"] = *update.Genre
    }
    if update.AverageRating != nil {
        set["average_rating"] = *update.AverageRating
    }
    if update.RatingCount != nil {
        set["rating_count"] = *update.RatingCount
    }
    if len(set) == 0 {
        return true, nil
    }

    updateResult, err := s.collection().UpdateOne(ctx,
        bson.M{"_id": slug},
        bson.M{"$set": set})
    if err != nil {
        return false, werrors.NewRetryableInternalError("failed to update search document: %s", err.Error())
    }
    return updateResult.MatchedCount > 0, nil
}

func (s *SearchIndex) Delete(ctx context.Context, slug string) werrors.WError {
    _, err := s.collection().DeleteOne(ctx, bson.M{"_id": slug})
    if err != nil {
        return werrors.NewRetryableInternalError("failed to delete search document: %s", err.Error())
    }
    return nil
}

func (s *SearchIndex) Get(ctx context.Context, slug string) (games.SearchDocument, bool, werrors.WError) {
    result := s.collection().FindOne(ctx, bson.M{"_id": slug})
    if err := result.Err(); err != nil {
        if errors.Is(err, mongo.ErrNoDocuments) {
            return games.SearchDocument{}, false, nil
        }
        return games.SearchDocument{}, false, werrors.NewRetryableInternalError("failed to get search document: %s", err.Error())
    }
    var documentBSON searchDocumentBSON
    if err := result.Decode(&documentBSON); err != nil {
        return games.SearchDocument{}, false, werrors.NewNonRetryableInternalError("failed decoding search document: %s", err.Error())
    }
    return toSearchDocument(documentBSON), true, nil
}

func (s *SearchIndex) Search(ctx context.Context, from int, size int) ([]games.SearchDocument, werrors.WError) {
    sort := bson.D{{Key: "average_rating", Value: -1}, {Key: "_id", Value: 1}}
    findOpts := options.Find().
        SetSort(sort).
        SetSkip(int64(from)).
        SetLimit(int64(size))

    cursor, err := s.collection().Find(ctx, bson.M{}, findOpts)
    if err != nil {
        return nil, werrors.NewRetryableInternalError("failed to search games: %s", err.Error())
    }
    iterator := &documentIterator{cursor: cursor}
    defer iterator.Close(ctx)

    var documents []games.SearchDocument
    for {
        hasNext, document, err := iterator.Next(ctx)
        if err != nil {
            return nil, werrors.NewRetryableInternalError("failed iterating search results: %s", err.Error())
        }
        if !hasNext {
            break
        }
        documents = append(documents, document)
    }
    return documents, nil
}

func (s *SearchIndex) collection() *mongo.Collection {
    return s.client.Database(s.dbName).Collection(s.collectionName)
}

func toSearchDocument(documentBSON searchDocumentBSON) games.SearchDocument {
    return games.SearchDocument{
        Slug:          documentBSON.Slug,
        Name:          documentBSON.Name,
        Title:         documentBSON.Title,
        Description:   documentBSON.Description,
        Genre:         documentBSON.Genre,
        AverageRating: documentBSON.AverageRating,
        RatingCount:   documentBSON.RatingCount,
    }
}

var _ games.GameIndex = (*SearchIndex)(nil)
