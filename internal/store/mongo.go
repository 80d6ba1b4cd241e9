package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/conectahn/wifi-portal-backend/internal/models"
)

const visitorsCollection = "visitors"

// Mongo is the durable backend over the visitors collection.
type Mongo struct {
	col *mongo.Collection
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{col: db.Collection(visitorsCollection)}
}

func (s *Mongo) Create(ctx context.Context, v *models.Visitor) error {
	now := time.Now()
	if v.ID.IsZero() {
		v.ID = primitive.NewObjectID()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}
	v.UpdatedAt = now

	_, err := s.col.InsertOne(ctx, v)
	return err
}

func (s *Mongo) Find(ctx context.Context, f Filter, page, limit int64) ([]models.Visitor, int64, error) {
	query := buildQuery(f)

	total, err := s.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		if page < 1 {
			page = 1
		}
		opts.SetSkip((page - 1) * limit).SetLimit(limit)
	}

	cur, err := s.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	records := make([]models.Visitor, 0)
	for cur.Next(ctx) {
		var v models.Visitor
		if err := cur.Decode(&v); err != nil {
			continue
		}
		records = append(records, v)
	}
	if err := cur.Err(); err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (s *Mongo) FindByID(ctx context.Context, id string) (*models.Visitor, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var v models.Visitor
	err = s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Mongo) Update(ctx context.Context, id string, patch map[string]interface{}) (*models.Visitor, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	set := bson.M{"updated_at": time.Now()}
	for field, val := range patch {
		if key, ok := models.PatchableFields[field]; ok {
			set[key] = val
		}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var v models.Visitor
	err = s.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Mongo) AppendCommunication(ctx context.Context, id string, entry models.CommunicationEntry) (*models.Visitor, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	update := bson.M{
		"$push": bson.M{"communication_history": entry},
		"$inc":  bson.M{"contact_attempts": 1},
		"$set": bson.M{
			"last_contact_attempt": entry.Date,
			"updated_at":           time.Now(),
		},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var v models.Visitor
	err = s.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Mongo) Count(ctx context.Context, f Filter) (int64, error) {
	return s.col.CountDocuments(ctx, buildQuery(f))
}

func (s *Mongo) CountBy(ctx context.Context, field string, f Filter) (map[string]int64, error) {
	pipeline := []bson.M{
		{"$match": buildQuery(f)},
		{"$group": bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}},
	}

	cur, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make(map[string]int64)
	for cur.Next(ctx) {
		var group struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cur.Decode(&group); err != nil {
			continue
		}
		if group.ID != "" {
			out[group.ID] = group.Count
		}
	}
	return out, cur.Err()
}

func nonEmpty(field string) bson.M {
	return bson.M{field: bson.M{"$exists": true, "$nin": bson.A{"", nil}}}
}

// buildQuery translates a Filter into the Mongo query document. Clauses that
// each need their own $or are collected under $and so they never collide.
func buildQuery(f Filter) bson.M {
	query := bson.M{}
	var and []bson.M

	if f.Status != "" {
		query["status"] = f.Status
	}
	if f.MigrationStatus != "" {
		query["migration_status"] = f.MigrationStatus
	}
	if f.Department != "" {
		query["location.department"] = f.Department
	}
	if f.Channel != "" {
		and = append(and, nonEmpty(channelField(f.Channel)))
	}
	if f.ContactableOnly {
		query["status"] = models.StatusActive
		var channels []bson.M
		for _, c := range models.ContactChannels {
			channels = append(channels, nonEmpty(channelField(c)))
		}
		and = append(and, bson.M{"$or": channels})
	}
	if f.WithSocial {
		var socials []bson.M
		for _, p := range models.SocialPlatforms {
			socials = append(socials, nonEmpty(p))
		}
		and = append(and, bson.M{"$or": socials})
	}
	if f.ContactedOnly {
		query["contact_attempts"] = bson.M{"$gt": 0}
	}
	if f.SuccessfulOnly {
		query["contact_success"] = true
	}
	if f.StaleDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -f.StaleDays)
		and = append(and, bson.M{"$or": []bson.M{
			{"last_contact_attempt": bson.M{"$lt": cutoff}},
			{"last_contact_attempt": bson.M{"$exists": false}},
			{"last_contact_attempt": nil},
		}})
	}
	if !f.CreatedAfter.IsZero() {
		query["created_at"] = bson.M{"$gte": f.CreatedAfter}
	}

	if len(and) > 0 {
		query["$and"] = and
	}
	return query
}

func channelField(channel string) string {
	switch channel {
	case "whatsapp":
		return "whatsapp_number"
	case "sms":
		return "phone"
	default:
		// email, facebook, instagram match their field names.
		return channel
	}
}
