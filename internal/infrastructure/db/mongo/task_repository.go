package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/testflow/task-system/internal/core/domain"
	"github.com/testflow/task-system/internal/core/ports"
)

const (
	collectionTasks    = "tasks"
	collectionCounters = "counters"
	taskNumberCounter  = "task_number"
)

// TaskRepository implements ports.TaskRepository using MongoDB. Sequential
// task numbers come from an atomically incremented counter document, so
// concurrent creations always receive distinct, increasing numbers.
type TaskRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{
		col:      db.Collection(collectionTasks),
		counters: db.Collection(collectionCounters),
	}
}

type mongoTask struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	TaskNumber         int32              `bson:"task_number"`
	Title              string             `bson:"title"`
	Description        string             `bson:"description,omitempty"`
	AssignedBy         string             `bson:"assigned_by"`
	TesterID           string             `bson:"tester_id,omitempty"`
	Status             string             `bson:"status"`
	Urgency            string             `bson:"urgency"`
	AcceptanceCriteria string             `bson:"acceptance_criteria,omitempty"`
	EvaluationCriteria string             `bson:"evaluation_criteria,omitempty"`
	Comment            string             `bson:"comment,omitempty"`
	CreatedAt          time.Time          `bson:"created_at"`
	ClosedAt           *time.Time         `bson:"closed_at,omitempty"`
}

func (mt *mongoTask) toDomain() *domain.Task {
	t := &domain.Task{
		ID:                 mt.ID.Hex(),
		TaskNumber:         mt.TaskNumber,
		Title:              mt.Title,
		Description:        mt.Description,
		AssignedBy:         mt.AssignedBy,
		TesterID:           mt.TesterID,
		Status:             domain.TaskStatus(mt.Status),
		Urgency:            domain.TaskUrgency(mt.Urgency),
		AcceptanceCriteria: mt.AcceptanceCriteria,
		EvaluationCriteria: mt.EvaluationCriteria,
		Comment:            mt.Comment,
		CreatedAt:          mt.CreatedAt.UTC(),
	}
	if mt.ClosedAt != nil {
		closed := mt.ClosedAt.UTC()
		t.ClosedAt = &closed
	}
	return t
}

func fromDomainTask(t *domain.Task) mongoTask {
	mt := mongoTask{
		TaskNumber:         t.TaskNumber,
		Title:              t.Title,
		Description:        t.Description,
		AssignedBy:         t.AssignedBy,
		TesterID:           t.TesterID,
		Status:             string(t.Status),
		Urgency:            string(t.Urgency),
		AcceptanceCriteria: t.AcceptanceCriteria,
		EvaluationCriteria: t.EvaluationCriteria,
		Comment:            t.Comment,
		CreatedAt:          t.CreatedAt.UTC(),
	}
	if t.ClosedAt != nil {
		closed := t.ClosedAt.UTC()
		mt.ClosedAt = &closed
	}
	return mt
}

// nextTaskNumber atomically increments and returns the task number sequence.
// The counter document is created on first use.
func (r *TaskRepository) nextTaskNumber(ctx context.Context) (int32, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int32 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": taskNumberCounter},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next task number: %w", err)
	}
	return counter.Seq, nil
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	number, err := r.nextTaskNumber(ctx)
	if err != nil {
		return nil, err
	}

	doc := fromDomainTask(task)
	doc.TaskNumber = number

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	created := *task
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	created.TaskNumber = number
	return &created, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mt mongoTask
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return mt.toDomain(), nil
}

func (r *TaskRepository) List(ctx context.Context, filter ports.ListTasksFilter) ([]*domain.Task, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	if filter.Urgency != "" {
		query["urgency"] = string(filter.Urgency)
	}
	if filter.TesterID != "" {
		query["tester_id"] = filter.TesterID
	}
	if filter.AssignedBy != "" {
		query["assigned_by"] = filter.AssignedBy
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		opts.SetSkip(int64((page - 1) * filter.Limit)).SetLimit(int64(filter.Limit))
	}

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []*domain.Task
	for cursor.Next(ctx) {
		var mt mongoTask
		if err := cursor.Decode(&mt); err != nil {
			return nil, 0, fmt.Errorf("decode task: %w", err)
		}
		tasks = append(tasks, mt.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, total, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(task.ID)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := fromDomainTask(task)
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrTaskNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// DeleteByCreator removes every task the given user created.
func (r *TaskRepository) DeleteByCreator(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.DeleteMany(ctx, bson.M{"assigned_by": userID})
	if err != nil {
		return fmt.Errorf("delete tasks by creator: %w", err)
	}
	return nil
}

// ClearTester unsets the tester reference on tasks assigned to the given user.
func (r *TaskRepository) ClearTester(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateMany(ctx,
		bson.M{"tester_id": userID},
		bson.M{"$unset": bson.M{"tester_id": ""}},
	)
	if err != nil {
		return fmt.Errorf("clear tester: %w", err)
	}
	return nil
}

// CountsByTester aggregates per-tester task counts in a single pipeline.
func (r *TaskRepository) CountsByTester(ctx context.Context) (map[string]ports.TesterTaskCounts, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	completed := bson.A{string(domain.StatusDone), string(domain.StatusClosed)}
	inProgress := bson.A{string(domain.StatusInProgress), string(domain.StatusTesting)}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"tester_id": bson.M{"$exists": true, "$ne": ""}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$tester_id",
			"total": bson.M{"$sum": 1},
			"completed": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$in": bson.A{"$status", completed}}, 1, 0},
			}},
			"in_progress": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$in": bson.A{"$status", inProgress}}, 1, 0},
			}},
		}}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate tester counts: %w", err)
	}
	defer cursor.Close(ctx)

	counts := make(map[string]ports.TesterTaskCounts)
	for cursor.Next(ctx) {
		var row struct {
			TesterID   string `bson:"_id"`
			Total      int64  `bson:"total"`
			Completed  int64  `bson:"completed"`
			InProgress int64  `bson:"in_progress"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode tester counts: %w", err)
		}
		counts[row.TesterID] = ports.TesterTaskCounts{
			Total:      row.Total,
			Completed:  row.Completed,
			InProgress: row.InProgress,
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("aggregate tester counts: %w", err)
	}
	return counts, nil
}

// EnsureIndexes creates the task indexes, including the unique task_number
// safety net behind the counter sequence.
func (r *TaskRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "task_number", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "tester_id", Value: 1}}},
		{Keys: bson.D{{Key: "assigned_by", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
