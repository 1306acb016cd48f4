// Package mongostore хранит документы в MongoDB: коллекция на коллекцию,
// id документа лежит в _id.
package mongostore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ai-interview/internal/store"
)

const connectTimeout = 10 * time.Second

// Store - хранилище на MongoDB
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Open подключается к url и проверяет сервер через ping
func Open(ctx context.Context, url, database string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &Store{client: client, db: client.Database(database)}, nil
}

func (s *Store) Collection(name string) store.Collection {
	return &collection{coll: s.db.Collection(name), name: name}
}

// Drop удаляет всю базу, используется в тестах
func (s *Store) Drop(ctx context.Context) error {
	return s.db.Drop(ctx)
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

type collection struct {
	coll *mongo.Collection
	name string
}

func (c *collection) Get(ctx context.Context, id string) ([]byte, error) {
	var doc bson.D
	err := c.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", c.name, id, err)
	}
	return toJSON(doc)
}

// Find отдает фильтр на сервер, а сортировку и окно делает store.Select,
// как и остальные хранилища
func (c *collection) Find(ctx context.Context, q store.Query) ([][]byte, error) {
	filter := bson.D{}
	for path, value := range q.Equals {
		v, err := toBSONValue(value)
		if err != nil {
			return nil, err
		}
		filter = append(filter, bson.E{Key: path, Value: v})
	}

	cur, err := c.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", c.name, err)
	}
	defer cur.Close(ctx)

	var docs [][]byte
	for cur.Next(ctx) {
		var doc bson.D
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", c.name, err)
		}
		data, err := toJSON(doc)
		if err != nil {
			return nil, err
		}
		docs = append(docs, data)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("find %s: %w", c.name, err)
	}
	return store.Select(docs, q)
}

func (c *collection) Insert(ctx context.Context, id string, doc []byte) error {
	prepared, err := store.Prepare(id, doc)
	if err != nil {
		return err
	}
	body, err := fromJSON(prepared)
	if err != nil {
		return err
	}
	body = append(bson.D{{Key: "_id", Value: id}}, body...)

	if _, err := c.coll.InsertOne(ctx, body); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s/%s", store.ErrDuplicate, c.name, id)
		}
		return fmt.Errorf("insert %s/%s: %w", c.name, id, err)
	}
	return nil
}

func (c *collection) UpdateFields(ctx context.Context, id string, fields map[string]any, ifRevision int64) (int64, error) {
	if err := store.CheckFields(fields); err != nil {
		return 0, err
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return 0, fmt.Errorf("marshal update: %w", err)
	}
	set, err := fromJSON(raw)
	if err != nil {
		return 0, err
	}

	filter := bson.D{{Key: "_id", Value: id}}
	if ifRevision != store.AnyRevision {
		filter = append(filter, bson.E{Key: "revision", Value: ifRevision})
	}
	update := bson.D{
		{Key: "$set", Value: set},
		{Key: "$inc", Value: bson.D{{Key: "revision", Value: int64(1)}}},
	}

	res, err := c.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("update %s/%s: %w", c.name, id, err)
	}
	return res.MatchedCount, nil
}

func (c *collection) Delete(ctx context.Context, id string) (int64, error) {
	res, err := c.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return 0, fmt.Errorf("delete %s/%s: %w", c.name, id, err)
	}
	return res.DeletedCount, nil
}

// fromJSON переводит JSON объект в BSON через relaxed extended JSON
// с сохранением имен полей
func fromJSON(data []byte) (bson.D, error) {
	var doc bson.D
	if err := bson.UnmarshalExtJSON(data, false, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrNotObject, err)
	}
	return doc, nil
}

// toJSON убирает _id и отдает документ как relaxed extended JSON
func toJSON(doc bson.D) ([]byte, error) {
	out := make(bson.D, 0, len(doc))
	for _, e := range doc {
		if e.Key != "_id" {
			out = append(out, e)
		}
	}
	data, err := bson.MarshalExtJSON(out, false, false)
	if err != nil {
		return nil, fmt.Errorf("render document: %w", err)
	}
	return data, nil
}

func toBSONValue(value any) (any, error) {
	raw, err := json.Marshal(map[string]any{"v": value})
	if err != nil {
		return nil, fmt.Errorf("marshal query value: %w", err)
	}
	doc, err := fromJSON(raw)
	if err != nil {
		return nil, err
	}
	return doc[0].Value, nil
}
