package mongo

import (
	"context"

	"github.com/yoockh/jobtrack/internal/models"
	"github.com/yoockh/jobtrack/internal/repositories"
	"github.com/yoockh/jobtrack/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ApplicationsCollection = "applications"

// applicationDoc is the stored shape: the record plus its owner.
type applicationDoc struct {
	UserID                string `bson:"user_id"`
	models.JobApplication `bson:",inline"`
}

type applicationRepo struct {
	col *mongo.Collection
}

func NewApplicationRepo(db *mongo.Database) repositories.ApplicationRepository {
	return &applicationRepo{col: db.Collection(ApplicationsCollection)}
}

func key(userID, id string) bson.M {
	return bson.M{"user_id": userID, "id": id}
}

// List returns the user's records in whatever order the server yields them.
func (r *applicationRepo) List(ctx context.Context, userID string) ([]models.JobApplication, error) {
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []applicationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]models.JobApplication, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.JobApplication)
	}
	return out, nil
}

// Create writes the document keyed by id, replacing any previous version.
func (r *applicationRepo) Create(ctx context.Context, userID string, app models.JobApplication) error {
	_, err := r.col.ReplaceOne(ctx,
		key(userID, app.ID),
		applicationDoc{UserID: userID, JobApplication: app},
		options.Replace().SetUpsert(true),
	)
	return err
}

func (r *applicationRepo) Update(ctx context.Context, userID string, app models.JobApplication) error {
	res, err := r.col.UpdateOne(ctx,
		key(userID, app.ID),
		bson.M{"$set": bson.M{
			"company":     app.Company,
			"role":        app.Role,
			"dateApplied": app.DateApplied,
			"status":      app.Status,
			"jobLink":     app.JobLink,
			"cvFileName":  app.CVFileName,
			"cvBase64":    app.CVBase64,
			"notes":       app.Notes,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

// Delete removes the document. Deleting an absent id is not an error.
func (r *applicationRepo) Delete(ctx context.Context, userID, id string) error {
	_, err := r.col.DeleteOne(ctx, key(userID, id))
	return err
}
