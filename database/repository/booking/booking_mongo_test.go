package bookingRepo

import (
	"context"
	"errors"
	"testing"
	"time"

	"groundbook/models"
	"groundbook/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func bookingDoc(id string, status models.BookingStatus) bson.D {
	return bson.D{
		{Key: "id", Value: id},
		{Key: "user_id", Value: "u1"},
		{Key: "ground_id", Value: "g1"},
		{Key: "booking_date", Value: "2025-03-10"},
		{Key: "start_time", Value: "09:00:00"},
		{Key: "end_time", Value: "11:00:00"},
		{Key: "time_slot", Value: "9:00 AM - 11:00 AM"},
		{Key: "status", Value: string(status)},
		{Key: "total_price", Value: 2000.0},
		{Key: "created_at", Value: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)},
		{Key: "updated_at", Value: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)},
	}
}

func TestMongoBookingRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create", func(mt *mtest.T) {
		repo := NewMongoBookingRepoWithCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := repo.Create(context.Background(), &models.Booking{ID: "b1", Status: models.BookingPending})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
	})

	mt.Run("get by id", func(mt *mtest.T) {
		repo := NewMongoBookingRepoWithCollection(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bookingDoc("b1", models.BookingPending)))

		b, err := repo.GetByID(context.Background(), "b1")
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if b.ID != "b1" || b.Status != models.BookingPending || b.TotalPrice != 2000 {
			t.Errorf("unexpected booking: %+v", b)
		}
	})

	mt.Run("get by id missing", func(mt *mtest.T) {
		repo := NewMongoBookingRepoWithCollection(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.GetByID(context.Background(), "nope")
		if !utils.IsNotFound(err) {
			t.Fatalf("expected NotFoundError, got %v", err)
		}
	})

	mt.Run("list", func(mt *mtest.T) {
		repo := NewMongoBookingRepoWithCollection(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bookingDoc("b2", models.BookingConfirmed),
			bookingDoc("b1", models.BookingPending),
		))

		list, err := repo.List(context.Background(), models.BookingFilter{UserID: "u1"})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(list) != 2 || list[0].ID != "b2" {
			t.Errorf("unexpected list: %+v", list)
		}
	})

	mt.Run("list empty", func(mt *mtest.T) {
		repo := NewMongoBookingRepoWithCollection(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		list, err := repo.List(context.Background(), models.BookingFilter{})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if list == nil || len(list) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", list)
		}
	})

	mt.Run("update status", func(mt *mtest.T) {
		repo := NewMongoBookingRepoWithCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: bookingDoc("b1", models.BookingConfirmed)},
		))

		b, err := repo.UpdateStatus(context.Background(), "b1", models.BookingPending, StatusPatch{Status: models.BookingConfirmed})
		if err != nil {
			t.Fatalf("UpdateStatus: %v", err)
		}
		if b.Status != models.BookingConfirmed {
			t.Errorf("status = %s, want confirmed", b.Status)
		}
	})

	mt.Run("update status writes patch timestamp", func(mt *mtest.T) {
		repo := NewMongoBookingRepoWithCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: bookingDoc("b1", models.BookingRejected)},
		))
		at := time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC)

		_, err := repo.UpdateStatus(context.Background(), "b1", models.BookingPending, StatusPatch{Status: models.BookingRejected, UpdatedAt: at})
		if err != nil {
			t.Fatalf("UpdateStatus: %v", err)
		}
		evt := mt.GetStartedEvent()
		if evt == nil {
			t.Fatal("no command was sent")
		}
		sent, ok := evt.Command.Lookup("update", "$set", "updated_at").TimeOK()
		if !ok || !sent.Equal(at) {
			t.Errorf("updated_at sent = %v, want %v", sent, at)
		}
	})

	mt.Run("update status mismatch", func(mt *mtest.T) {
		repo := NewMongoBookingRepoWithCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := repo.UpdateStatus(context.Background(), "b1", models.BookingPending, StatusPatch{Status: models.BookingRejected})
		if !errors.Is(err, ErrStatusMismatch) {
			t.Fatalf("expected ErrStatusMismatch, got %v", err)
		}
	})
}

func TestFilterDocument(t *testing.T) {
	f := filterDocument(models.BookingFilter{
		GroundID:    "g1",
		BookingDate: "2025-03-10",
		Statuses:    []models.BookingStatus{models.BookingPending, models.BookingConfirmed},
	})
	if _, ok := f["user_id"]; ok {
		t.Error("empty user id should not be filtered on")
	}
	if f["ground_id"] != "g1" || f["booking_date"] != "2025-03-10" {
		t.Errorf("unexpected filter: %v", f)
	}
	in, ok := f["status"].(bson.M)
	if !ok {
		t.Fatalf("status filter missing: %v", f)
	}
	if got := in["$in"].([]models.BookingStatus); len(got) != 2 {
		t.Errorf("status $in = %v", got)
	}
}
