package mongodb

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.uber.org/zap"

	"github.com/mamadbah2/milkbook/internal/domain/models"
	"github.com/mamadbah2/milkbook/internal/repository"
)

func newMockRepo(mt *mtest.T) *MongoDBRepository {
	return &MongoDBRepository{client: mt.Client, db: mt.DB, logger: zap.NewNop()}
}

func ns(mt *mtest.T, coll string) string {
	return mt.DB.Name() + "." + coll
}

func startedCommands(mt *mtest.T, name string) []bson.Raw {
	var out []bson.Raw
	for _, evt := range mt.GetAllStartedEvents() {
		if evt.CommandName == name {
			out = append(out, evt.Command)
		}
	}
	return out
}

func deliveryDoc() bson.D {
	return bson.D{
		{Key: "_id", Value: "d1"},
		{Key: "customerId", Value: "c1"},
		{Key: "date", Value: "2025-03-01"},
		{Key: "shift", Value: "MORNING"},
		{Key: "quota", Value: 2.0},
		{Key: "actualAmount", Value: 1.5},
		{Key: "delivered", Value: true},
	}
}

func TestUpsertDelivery(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	key := models.DeliveryKey{CustomerID: "c1", Date: "2025-03-01", Shift: models.ShiftMorning}

	mt.Run("snapshots quota only on insert", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, ns(mt, deliveriesColl), mtest.FirstBatch, deliveryDoc()),
		)

		row, err := repo.UpsertDelivery(ctx, models.DeliveryUpsert{Key: key, Quota: 2, ActualAmount: 1.5, Delivered: true})
		require.NoError(mt, err)
		assert.Equal(mt, "d1", row.ID)
		assert.Equal(mt, 2.0, row.Quota)

		updates := startedCommands(mt, "update")
		require.Len(mt, updates, 1)
		u := updates[0].Lookup("updates", "0")

		assert.True(mt, u.Document().Lookup("upsert").Boolean())
		assert.Equal(mt, 2.0, u.Document().Lookup("u", "$setOnInsert", "quota").Double())
		_, err = u.Document().LookupErr("u", "$set", "quota")
		assert.Error(mt, err, "quota must not be overwritten on update")
		_, err = u.Document().LookupErr("u", "$set", "notes")
		assert.Error(mt, err, "nil notes leave the field untouched")
		assert.Equal(mt, "c1", u.Document().Lookup("q", "customerId").StringValue())
	})

	mt.Run("retries once on duplicate key", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "E11000 duplicate key error"}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateCursorResponse(0, ns(mt, deliveriesColl), mtest.FirstBatch, deliveryDoc()),
		)

		row, err := repo.UpsertDelivery(ctx, models.DeliveryUpsert{Key: key, Quota: 2, ActualAmount: 1.5, Delivered: true})
		require.NoError(mt, err)
		assert.Equal(mt, "d1", row.ID)
		assert.Len(mt, startedCommands(mt, "update"), 2)
	})

	mt.Run("other write errors are returned", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 2, Message: "bad value"}),
		)

		_, err := repo.UpsertDelivery(ctx, models.DeliveryUpsert{Key: key, Quota: 2})
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "upsert delivery")
		assert.Len(mt, startedCommands(mt, "update"), 1)
	})
}

func TestClearDeliveriesReturnsMatched(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("matched count", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 3}, bson.E{Key: "nModified", Value: 2}))

		n, err := repo.ClearDeliveries(context.Background(), "2025-03-01", models.ShiftEvening)
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), n)

		updates := startedCommands(mt, "update")
		require.Len(mt, updates, 1)
		u := updates[0].Lookup("updates", "0").Document()
		assert.True(mt, u.Lookup("multi").Boolean())
		assert.Equal(mt, "EVENING", u.Lookup("q", "shift").StringValue())
		assert.Equal(mt, 0.0, u.Lookup("u", "$set", "actualAmount").Double())
		assert.False(mt, u.Lookup("u", "$set", "delivered").Boolean())
	})
}

func TestNotFoundMapping(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("find without documents", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, sourcesColl), mtest.FirstBatch))

		_, err := repo.FindSource(ctx, "s1")
		var nf *models.NotFoundError
		require.ErrorAs(mt, err, &nf)
		assert.Equal(mt, "source", nf.Resource)
		assert.Equal(mt, "s1", nf.ID)
	})

	mt.Run("replace matching nothing", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := repo.UpdateSource(ctx, &models.Source{ID: "s1", Name: "Farm"})
		assert.ErrorIs(mt, err, models.ErrNotFound)
	})

	mt.Run("delete matching nothing", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		assert.ErrorIs(mt, repo.DeleteStockEntry(ctx, "e1"), models.ErrNotFound)
	})

	mt.Run("server errors are not not-found", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 13, Name: "Unauthorized", Message: "denied"}))

		_, err := repo.FindSource(ctx, "s1")
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, models.ErrNotFound)
	})
}

func TestSums(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("stock total", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, stockColl), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: nil}, {Key: "total", Value: 125.5}}))

		total, err := repo.SumStock(ctx, models.StockFilter{StartDate: "2025-03-01"})
		require.NoError(mt, err)
		assert.Equal(mt, 125.5, total)

		cmds := startedCommands(mt, "aggregate")
		require.Len(mt, cmds, 1)
		match := cmds[0].Lookup("pipeline", "0", "$match").Document()
		assert.Equal(mt, "2025-03-01", match.Lookup("date", "$gte").StringValue())
		assert.Equal(mt, "$quantity", cmds[0].Lookup("pipeline", "1", "$group", "total", "$sum").StringValue())
	})

	mt.Run("no deliveries", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, deliveriesColl), mtest.FirstBatch))

		delivered := true
		total, err := repo.SumDelivered(ctx, models.DeliveryFilter{Delivered: &delivered})
		require.NoError(mt, err)
		assert.Zero(mt, total)
	})
}

func TestWithTransaction(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("commits writes made through the session", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateSuccessResponse(),
		)

		err := repo.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
			_, err := tx.ClearDeliveries(ctx, "2025-03-01", models.ShiftMorning)
			return err
		})
		require.NoError(mt, err)

		updates := startedCommands(mt, "update")
		require.Len(mt, updates, 1)
		assert.True(mt, updates[0].Lookup("startTransaction").Boolean())
		assert.Len(mt, startedCommands(mt, "commitTransaction"), 1)
	})

	mt.Run("callback error aborts", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		boom := errors.New("boom")

		err := repo.WithTransaction(ctx, func(context.Context, repository.Store) error {
			return boom
		})
		assert.ErrorIs(mt, err, boom)
		assert.Empty(mt, startedCommands(mt, "commitTransaction"))
	})
}
