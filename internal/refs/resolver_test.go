package refs

import (
	"testing"

	"github.com/openshelf/picklist-backend/pkg/db/models"
	pkgerrors "github.com/openshelf/picklist-backend/pkg/errors"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Category{}, &models.Area{}))
	return conn
}

func TestCategoryResolvesExistingID(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&models.Category{ID: "cat-1", Name: "Clothing"}).Error)

	r := NewResolver(db)
	id, err := r.Category("cat-1", false)
	require.NoError(t, err)
	require.Equal(t, "cat-1", id)
}

func TestCategoryResolvesByNormalizedName(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&models.Category{ID: "cat-1", Name: "Clothing"}).Error)

	r := NewResolver(db)
	for _, ref := range []string{"clothing", "  CLOTHING ", "Clothing"} {
		id, err := r.Category(ref, false)
		require.NoError(t, err)
		require.Equal(t, "cat-1", id, "ref %q", ref)
	}
}

func TestCategoryCreatesWhenMissing(t *testing.T) {
	db := newTestDB(t)
	r := NewResolver(db)

	id, err := r.Category("  New Category ", true)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	var created models.Category
	require.NoError(t, db.First(&created, "id = ?", id).Error)
	require.Equal(t, "New Category", created.Name, "stored name keeps original casing, trimmed")
}

func TestCategoryRepeatedRefsCreateOnce(t *testing.T) {
	db := newTestDB(t)
	r := NewResolver(db)

	first, err := r.Category("Dairy", true)
	require.NoError(t, err)
	second, err := r.Category(" dairy  ", true)
	require.NoError(t, err)
	require.Equal(t, first, second)

	var count int64
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestCategoryNotFoundWithoutCreate(t *testing.T) {
	db := newTestDB(t)
	r := NewResolver(db)

	_, err := r.Category("ghost", false)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestEmptyReferenceRejected(t *testing.T) {
	db := newTestDB(t)
	r := NewResolver(db)

	_, err := r.Category("   ", true)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestAreaResolution(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&models.Area{ID: "area-1", Name: "Back Room"}).Error)

	r := NewResolver(db)
	id, err := r.Area("back  room", false)
	require.NoError(t, err)
	require.Equal(t, "area-1", id)

	created, err := r.Area("Front Counter", true)
	require.NoError(t, err)
	require.NotEqual(t, "area-1", created)
}

func TestKnownCategoryID(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&models.Category{ID: "cat-1", Name: "Clothing"}).Error)

	r := NewResolver(db)
	known, err := r.KnownCategoryID("cat-1")
	require.NoError(t, err)
	require.True(t, known)

	known, err = r.KnownCategoryID("Clothing")
	require.NoError(t, err)
	require.False(t, known, "names are not ids")
}
