package service

import (
	"context"
	"sync"
	"testing"

	"github.com/bazely/bazely-backend/internal/app/model"
	"github.com/bazely/bazely-backend/internal/app/policy"
	"github.com/bazely/bazely-backend/internal/app/repository"
	"github.com/bazely/bazely-backend/internal/db"
	"github.com/bazely/bazely-backend/pkg/announce"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recordingAnnouncer captures announcement texts so tests can assert on them.
type recordingAnnouncer struct {
	mu    sync.Mutex
	texts []string
}

func (r *recordingAnnouncer) Announce(ctx context.Context, text string, mediaIDs ...string) announce.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts = append(r.texts, text)
	return announce.StatusPosted
}

func (r *recordingAnnouncer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.texts)
}

func (r *recordingAnnouncer) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.texts) == 0 {
		return ""
	}
	return r.texts[len(r.texts)-1]
}

type testEnv struct {
	db        *gorm.DB
	announcer *recordingAnnouncer
	stores    StoreService
	products  ProductService
	reviews   ReviewService
}

func setupServiceTest(t *testing.T) *testEnv {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	storeRepo := repository.NewStoreRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	reviewRepo := repository.NewReviewRepository(testDB)

	rec := &recordingAnnouncer{}
	return &testEnv{
		db:        testDB,
		announcer: rec,
		stores:    NewStoreService(storeRepo, userRepo, reviewRepo, rec),
		products:  NewProductService(productRepo, storeRepo, rec),
		reviews:   NewReviewService(reviewRepo, productRepo),
	}
}

func (e *testEnv) createUser(t *testing.T, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) createStore(t *testing.T, owner *model.User, name string) *model.Store {
	t.Helper()
	store, err := e.stores.CreateStore(context.Background(), asActor(owner), StoreInput{
		Name:        name,
		Description: "a test store",
	})
	require.NoError(t, err)
	return store
}

func (e *testEnv) createProduct(t *testing.T, owner *model.User, storeID uint, name string) *model.Product {
	t.Helper()
	product, err := e.products.CreateProduct(context.Background(), asActor(owner), storeID, ProductInput{
		Name:        name,
		Description: "a test product",
		Price:       9.99,
	})
	require.NoError(t, err)
	return product
}

func asActor(user *model.User) policy.Actor {
	return policy.Actor{ID: user.ID, Authenticated: true}
}
