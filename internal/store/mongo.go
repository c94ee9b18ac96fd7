package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zerojuls/ScheduleStorm-Server/internal/model"
)

// Mongo is the MongoDB-backed CatalogStore. Documents for every university
// share the same collections, scoped by a "uni" field.
type Mongo struct {
	uni      string
	terms    *mongo.Collection
	subjects *mongo.Collection
	sections *mongo.Collection
	descs    *mongo.Collection
}

// NewMongo creates a store over the given database for one university.
func NewMongo(db *mongo.Database, uni string) *Mongo {
	return &Mongo{
		uni:      uni,
		terms:    db.Collection("Terms"),
		subjects: db.Collection("Subjects"),
		sections: db.Collection("CourseList"),
		descs:    db.Collection("CourseDesc"),
	}
}

// EnsureIndexes creates the identity indexes backing the upserts.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := m.terms.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}, {Key: "uni", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("creating terms index: %w", err)
	}

	_, err = m.descs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "subject", Value: 1}, {Key: "coursenum", Value: 1}, {Key: "uni", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("creating descriptions index: %w", err)
	}
	return nil
}

type termDoc struct {
	Uni        string `bson:"uni"`
	model.Term `bson:",inline"`
}

type subjectDoc struct {
	Uni           string `bson:"uni"`
	model.Subject `bson:",inline"`
}

type sectionDoc struct {
	Uni           string `bson:"uni"`
	model.Section `bson:",inline"`
}

type descDoc struct {
	Uni                     string `bson:"uni"`
	model.CourseDescription `bson:",inline"`
}

func (m *Mongo) UpsertTerm(ctx context.Context, t model.Term) error {
	t.Enabled = true
	_, err := m.terms.UpdateOne(ctx,
		bson.M{"id": t.ID, "uni": m.uni},
		bson.M{
			"$set":         termDoc{Uni: m.uni, Term: t},
			"$currentDate": bson.M{"lastModified": true},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upserting term %s: %w", t.ID, err)
	}
	return nil
}

func (m *Mongo) ResetEnabledTerms(ctx context.Context) error {
	_, err := m.terms.UpdateMany(ctx,
		bson.M{"uni": m.uni},
		bson.M{"$set": bson.M{"enabled": false}},
	)
	if err != nil {
		return fmt.Errorf("disabling terms: %w", err)
	}
	return nil
}

func (m *Mongo) UpsertSubject(ctx context.Context, s model.Subject) error {
	_, err := m.subjects.UpdateOne(ctx,
		bson.M{"subject": s.Code, "uni": m.uni},
		bson.M{"$set": subjectDoc{Uni: m.uni, Subject: s}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upserting subject %s: %w", s.Code, err)
	}
	return nil
}

func (m *Mongo) UpsertSection(ctx context.Context, s model.Section) error {
	_, err := m.sections.UpdateOne(ctx,
		bson.M{
			"uni":       m.uni,
			"term":      s.Term,
			"subject":   s.Subject,
			"coursenum": s.CourseNum,
			"section":   s.Section,
			"type":      s.Type,
		},
		bson.M{
			"$set":         sectionDoc{Uni: m.uni, Section: s},
			"$currentDate": bson.M{"lastModified": true},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upserting section %s %s %s: %w", s.Subject, s.CourseNum, s.Section, err)
	}
	return nil
}

func (m *Mongo) HasDescription(ctx context.Context, coursenum, subject string) (bool, error) {
	err := m.descs.FindOne(ctx, bson.M{
		"uni":       m.uni,
		"subject":   subject,
		"coursenum": coursenum,
	}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("looking up description %s %s: %w", subject, coursenum, err)
	}
	return true, nil
}

func (m *Mongo) UpsertDescription(ctx context.Context, d model.CourseDescription) error {
	_, err := m.descs.UpdateOne(ctx,
		bson.M{"uni": m.uni, "subject": d.Subject, "coursenum": d.CourseNum},
		bson.M{"$set": descDoc{Uni: m.uni, CourseDescription: d}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upserting description %s %s: %w", d.Subject, d.CourseNum, err)
	}
	return nil
}

func (m *Mongo) EnabledTerms(ctx context.Context) (map[string]string, error) {
	cur, err := m.terms.Find(ctx, bson.M{"uni": m.uni, "enabled": true})
	if err != nil {
		return nil, fmt.Errorf("finding enabled terms: %w", err)
	}
	defer cur.Close(ctx)

	var terms []model.Term
	if err := cur.All(ctx, &terms); err != nil {
		return nil, fmt.Errorf("decoding terms: %w", err)
	}

	out := make(map[string]string, len(terms))
	for _, t := range terms {
		out[t.ID] = t.Name
	}
	return out, nil
}

func (m *Mongo) Locations(ctx context.Context) ([]string, error) {
	values, err := m.sections.Distinct(ctx, "location", bson.M{"uni": m.uni})
	if err != nil {
		return nil, fmt.Errorf("finding locations: %w", err)
	}

	var out []string
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}
