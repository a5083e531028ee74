package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lingobridge/lingobridge-backend/internal/apierr"
	"github.com/lingobridge/lingobridge-backend/internal/repos"
	"github.com/lingobridge/lingobridge-backend/internal/types"
)

func profileServiceOverSqlite(t *testing.T) ProfileService {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(&types.Document{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	log := testLogger(t)
	return NewProfileService(gdb, log, repos.NewDocumentRepo(gdb, log))
}

func TestUpdateProfileCreatesThenOverwrites(t *testing.T) {
	svc := profileServiceOverSqlite(t)
	ctx := context.Background()

	first := ProfileUpdateInput{
		UserID:        "u1",
		DisplayName:   "Ana",
		Level:         "A2",
		LearningGoals: []string{"grammar"},
	}
	if err := svc.UpdateProfile(ctx, first); err != nil {
		t.Fatalf("first update: %v", err)
	}

	second := first
	second.Level = "B1"
	second.PreferredLearningStyle = "visual"
	if err := svc.UpdateProfile(ctx, second); err != nil {
		t.Fatalf("second update of the same user must succeed: %v", err)
	}

	profile, err := svc.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if profile.Level != "B1" || profile.PreferredLearningStyle != "visual" {
		t.Fatalf("profile = %+v, want the second update's values", profile)
	}
	if profile.DisplayName != "Ana" {
		t.Fatalf("displayName = %q", profile.DisplayName)
	}
}

func TestGetProfileAbsentIsNotFound(t *testing.T) {
	svc := profileServiceOverSqlite(t)

	_, err := svc.GetProfile(context.Background(), "nobody")
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Code != apierr.CodeNotFound {
		t.Fatalf("err = %v, want not_found", err)
	}
	if ae.Error() != "User profile not found" {
		t.Fatalf("message = %q", ae.Error())
	}
}
