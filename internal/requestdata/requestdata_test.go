package requestdata

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestRequestDataRoundTrip(t *testing.T) {
	rd := &RequestData{TokenString: "tok", UserID: uuid.New()}
	ctx := WithRequestData(context.Background(), rd)

	got := GetRequestData(ctx)
	if got == nil || got.UserID != rd.UserID || got.TokenString != "tok" {
		t.Fatalf("GetRequestData = %+v, want %+v", got, rd)
	}
}

func TestGetRequestDataMissing(t *testing.T) {
	if got := GetRequestData(context.Background()); got != nil {
		t.Fatalf("empty context should yield nil, got %+v", got)
	}
}

func TestKeyDoesNotCollideWithForeignValues(t *testing.T) {
	rd := &RequestData{UserID: uuid.New()}
	ctx := WithRequestData(context.Background(), rd)

	// Another package storing a value under its own empty-struct key must not
	// shadow ours.
	ctx = context.WithValue(ctx, struct{}{}, "unrelated")

	got := GetRequestData(ctx)
	if got == nil || got.UserID != rd.UserID {
		t.Fatalf("GetRequestData = %+v, want %+v", got, rd)
	}
}
