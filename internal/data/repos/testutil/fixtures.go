package testutil

import (
	"context"
	"testing"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/taiyaki-backend/internal/domain"
)

func SeedDesign(tb testing.TB, ctx context.Context, tx *gorm.DB, email string, status types.DesignStatus) *types.Design {
	tb.Helper()
	d := &types.Design{
		Email:       email,
		SubjectName: "Rex",
		PhotoURL:    "https://storage.example/uploads/photo.jpg",
		Status:      status,
		Responses:   datatypes.NewJSONType(types.QuizResponses{Material: "sterling_silver"}),
	}
	if err := tx.WithContext(ctx).Create(d).Error; err != nil {
		tb.Fatalf("seed design: %v", err)
	}
	return d
}
