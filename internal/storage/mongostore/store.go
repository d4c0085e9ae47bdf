// Package mongostore keeps users, ledger rows and goals in MongoDB, one
// collection per entity.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/core"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const (
	UsersCollection    = "users"
	IncomesCollection  = "incomes"
	ExpensesCollection = "expenses"
	GoalsCollection    = "goals"
)

type Store struct {
	client   *mongo.Client
	users    *mongo.Collection
	incomes  *mongo.Collection
	expenses *mongo.Collection
	goals    *mongo.Collection
}

// Connect opens a client, verifies the connection and ensures indexes.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	client, err := mongo.Connect(options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(database)
	s := &Store{
		client:   client,
		users:    db.Collection(UsersCollection),
		incomes:  db.Collection(IncomesCollection),
		expenses: db.Collection(ExpensesCollection),
		goals:    db.Collection(GoalsCollection),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	slog.InfoContext(ctx, "Connected to MongoDB", "database", database)
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	if _, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("create users index: %w", err)
	}

	ledgerIndex := mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}}}
	for _, c := range []*mongo.Collection{s.incomes, s.expenses} {
		if _, err := c.Indexes().CreateOne(ctx, ledgerIndex); err != nil {
			return fmt.Errorf("create %s index: %w", c.Name(), err)
		}
	}

	if _, err := s.goals.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	}); err != nil {
		return fmt.Errorf("create goals index: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Users

func (s *Store) CreateUser(ctx context.Context, u core.User) error {
	_, err := s.users.InsertOne(ctx, userDocFrom(u))
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("create user: %w", core.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	slog.InfoContext(ctx, "User saved to MongoDB", "id", u.ID)
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *Store) GetUserByID(ctx context.Context, id string) (core.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *Store) findUser(ctx context.Context, filter bson.M) (core.User, error) {
	var doc userDoc
	if err := s.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		return core.User{}, fmt.Errorf("find user: %w", mapNoDocuments(err))
	}
	return doc.toCore(), nil
}

func mapNoDocuments(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return core.ErrNotFound
	}
	return err
}

// Ledger

var newestFirst = bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}}

func (s *Store) CreateIncome(ctx context.Context, in core.Income) error {
	if _, err := s.incomes.InsertOne(ctx, incomeDocFrom(in)); err != nil {
		return fmt.Errorf("create income: %w", err)
	}
	slog.InfoContext(ctx, "Income saved to MongoDB", "id", in.ID, "amount_cents", in.Amount.Cents)
	return nil
}

func (s *Store) ListIncomes(ctx context.Context, userID string) ([]core.Income, error) {
	return s.findIncomes(ctx, bson.M{"userId": userID}, 0)
}

func (s *Store) ListIncomesSince(ctx context.Context, userID string, since time.Time) ([]core.Income, error) {
	return s.findIncomes(ctx, bson.M{"userId": userID, "date": bson.M{"$gte": since}}, 0)
}

func (s *Store) RecentIncomes(ctx context.Context, userID string, limit int) ([]core.Income, error) {
	return s.findIncomes(ctx, bson.M{"userId": userID}, limit)
}

func (s *Store) SumIncomes(ctx context.Context, userID string) (core.Money, error) {
	return sumAmounts(ctx, s.incomes, userID)
}

func (s *Store) DeleteIncome(ctx context.Context, userID, id string) (bool, error) {
	return deleteOwned(ctx, s.incomes, userID, id)
}

func (s *Store) findIncomes(ctx context.Context, filter bson.M, limit int) ([]core.Income, error) {
	docs, err := findSorted[incomeDoc](ctx, s.incomes, filter, newestFirst, limit)
	if err != nil {
		return nil, fmt.Errorf("find incomes: %w", err)
	}
	out := make([]core.Income, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toCore())
	}
	return out, nil
}

func (s *Store) CreateExpense(ctx context.Context, e core.Expense) error {
	if _, err := s.expenses.InsertOne(ctx, expenseDocFrom(e)); err != nil {
		return fmt.Errorf("create expense: %w", err)
	}
	slog.InfoContext(ctx, "Expense saved to MongoDB", "id", e.ID, "amount_cents", e.Amount.Cents)
	return nil
}

func (s *Store) ListExpenses(ctx context.Context, userID string) ([]core.Expense, error) {
	return s.findExpenses(ctx, bson.M{"userId": userID}, 0)
}

func (s *Store) ListExpensesSince(ctx context.Context, userID string, since time.Time) ([]core.Expense, error) {
	return s.findExpenses(ctx, bson.M{"userId": userID, "date": bson.M{"$gte": since}}, 0)
}

func (s *Store) RecentExpenses(ctx context.Context, userID string, limit int) ([]core.Expense, error) {
	return s.findExpenses(ctx, bson.M{"userId": userID}, limit)
}

func (s *Store) SumExpenses(ctx context.Context, userID string) (core.Money, error) {
	return sumAmounts(ctx, s.expenses, userID)
}

func (s *Store) DeleteExpense(ctx context.Context, userID, id string) (bool, error) {
	return deleteOwned(ctx, s.expenses, userID, id)
}

func (s *Store) findExpenses(ctx context.Context, filter bson.M, limit int) ([]core.Expense, error) {
	docs, err := findSorted[expenseDoc](ctx, s.expenses, filter, newestFirst, limit)
	if err != nil {
		return nil, fmt.Errorf("find expenses: %w", err)
	}
	out := make([]core.Expense, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toCore())
	}
	return out, nil
}

// Goals

func (s *Store) CreateGoal(ctx context.Context, g core.Goal) error {
	if _, err := s.goals.InsertOne(ctx, goalDocFrom(g)); err != nil {
		return fmt.Errorf("create goal: %w", err)
	}
	slog.InfoContext(ctx, "Goal saved to MongoDB", "id", g.ID, "title", g.Title)
	return nil
}

func (s *Store) ListGoals(ctx context.Context, userID string) ([]core.Goal, error) {
	return s.findGoals(ctx, bson.M{"userId": userID})
}

func (s *Store) ListGoalsByStatus(ctx context.Context, userID string, status core.GoalStatus) ([]core.Goal, error) {
	return s.findGoals(ctx, bson.M{"userId": userID, "status": string(status)})
}

func (s *Store) findGoals(ctx context.Context, filter bson.M) ([]core.Goal, error) {
	docs, err := findSorted[goalDoc](ctx, s.goals, filter, bson.D{{Key: "createdAt", Value: -1}}, 0)
	if err != nil {
		return nil, fmt.Errorf("find goals: %w", err)
	}
	out := make([]core.Goal, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toCore())
	}
	return out, nil
}

func (s *Store) GetGoal(ctx context.Context, userID, id string) (core.Goal, error) {
	var doc goalDoc
	if err := s.goals.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&doc); err != nil {
		return core.Goal{}, fmt.Errorf("get goal: %w", mapNoDocuments(err))
	}
	return doc.toCore(), nil
}

func (s *Store) UpdateGoal(ctx context.Context, g core.Goal) error {
	res, err := s.goals.ReplaceOne(ctx, bson.M{"_id": g.ID, "userId": g.UserID}, goalDocFrom(g))
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update goal: %w", core.ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteGoal(ctx context.Context, userID, id string) (bool, error) {
	return deleteOwned(ctx, s.goals, userID, id)
}

// helpers

func findSorted[T any](ctx context.Context, c *mongo.Collection, filter bson.M, sort bson.D, limit int) ([]T, error) {
	opts := options.Find().SetSort(sort)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func sumAmounts(ctx context.Context, c *mongo.Collection, userID string) (core.Money, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "userId", Value: userID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$amountCents"}}},
		}}},
	}
	cur, err := c.Aggregate(ctx, pipeline)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum %s: %w", c.Name(), err)
	}
	var results []struct {
		Total int64 `bson:"total"`
	}
	if err := cur.All(ctx, &results); err != nil {
		return core.Money{}, fmt.Errorf("sum %s: %w", c.Name(), err)
	}
	if len(results) == 0 {
		return core.Money{}, nil
	}
	return core.Money{Cents: results[0].Total}, nil
}

func deleteOwned(ctx context.Context, c *mongo.Collection, userID, id string) (bool, error) {
	res, err := c.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return false, fmt.Errorf("delete from %s: %w", c.Name(), err)
	}
	return res.DeletedCount > 0, nil
}
