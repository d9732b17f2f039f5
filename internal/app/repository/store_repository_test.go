package repository

import (
	"testing"
	"time"

	"github.com/bazely/bazely-backend/internal/app/model"
	"github.com/bazely/bazely-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRepoTest(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func seedUser(t *testing.T, testDB *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func TestStoreRepository_FindAll_NewestFirst(t *testing.T) {
	testDB := setupRepoTest(t)
	repo := NewStoreRepository(testDB)
	vendor := seedUser(t, testDB, "vendor")

	base := time.Now().Add(-time.Hour)
	older := &model.Store{UserID: vendor.ID, Name: "Older", Description: "d", CreatedAt: base}
	newer := &model.Store{UserID: vendor.ID, Name: "Newer", Description: "d", CreatedAt: base.Add(time.Minute)}
	require.NoError(t, repo.Create(older))
	require.NoError(t, repo.Create(newer))

	stores, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, stores, 2)
	assert.Equal(t, "Newer", stores[0].Name)
	assert.Equal(t, "Older", stores[1].Name)
	assert.Equal(t, "vendor", stores[0].User.Username)
}

func TestStoreRepository_Delete_Cascades(t *testing.T) {
	testDB := setupRepoTest(t)
	storeRepo := NewStoreRepository(testDB)
	productRepo := NewProductRepository(testDB)
	vendor := seedUser(t, testDB, "vendor")
	customer := seedUser(t, testDB, "customer")

	store := &model.Store{UserID: vendor.ID, Name: "Acme", Description: "d"}
	require.NoError(t, storeRepo.Create(store))
	keep := &model.Store{UserID: vendor.ID, Name: "Keep", Description: "d"}
	require.NoError(t, storeRepo.Create(keep))

	product := &model.Product{StoreID: store.ID, Name: "Widget", Description: "d", Price: 1}
	require.NoError(t, productRepo.Create(product))
	surviving := &model.Product{StoreID: keep.ID, Name: "Gadget", Description: "d", Price: 1}
	require.NoError(t, productRepo.Create(surviving))

	review := &model.Review{ProductID: product.ID, UserID: customer.ID, Rating: 5, Comment: "c"}
	require.NoError(t, testDB.Create(review).Error)
	survivingReview := &model.Review{ProductID: surviving.ID, UserID: customer.ID, Rating: 4, Comment: "c"}
	require.NoError(t, testDB.Create(survivingReview).Error)

	require.NoError(t, storeRepo.Delete(store.ID))

	_, err := storeRepo.FindByID(store.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = productRepo.FindByID(product.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var reviewCount int64
	require.NoError(t, testDB.Model(&model.Review{}).Count(&reviewCount).Error)
	assert.EqualValues(t, 1, reviewCount)

	// The unrelated store is untouched.
	_, err = storeRepo.FindByID(keep.ID)
	assert.NoError(t, err)
	_, err = productRepo.FindByID(surviving.ID)
	assert.NoError(t, err)
}

func TestStoreRepository_FindByVendor(t *testing.T) {
	testDB := setupRepoTest(t)
	repo := NewStoreRepository(testDB)
	vendor := seedUser(t, testDB, "vendor")
	other := seedUser(t, testDB, "other")

	require.NoError(t, repo.Create(&model.Store{UserID: vendor.ID, Name: "Mine", Description: "d"}))
	require.NoError(t, repo.Create(&model.Store{UserID: other.ID, Name: "Theirs", Description: "d"}))

	stores, err := repo.FindByVendor(vendor.ID)
	require.NoError(t, err)
	require.Len(t, stores, 1)
	assert.Equal(t, "Mine", stores[0].Name)
}
