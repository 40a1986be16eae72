package service

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"smart-tasks/internal/auth"
	"smart-tasks/internal/config"
	"smart-tasks/internal/model"
	"smart-tasks/internal/repository"
)

type testEnv struct {
	users   *repository.UserRepository
	tasks   *repository.TaskRepository
	userSvc *UserService
	taskSvc *TaskService
	reports *ReportService
	cache   *recordingCache
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repository.NewDB(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		URL:    "file:" + name + "?mode=memory&cache=shared",
	}, log)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { sqlDB.Close() })

	env := &testEnv{
		users: repository.NewUserRepository(db),
		tasks: repository.NewTaskRepository(db),
		cache: newRecordingCache(),
	}
	env.userSvc = NewUserService(env.users, auth.NewIssuer("secret", time.Hour))
	env.taskSvc = NewTaskService(env.tasks, env.cache)
	env.reports = NewReportService(env.users, env.tasks)
	return env
}

func (e *testEnv) register(t *testing.T, email string) uint {
	t.Helper()
	res, err := e.userSvc.Register(context.Background(), "User", email, "password")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return res.User.ID
}

type recordingCache struct {
	mu      sync.Mutex
	stats   map[uint]model.TaskStats
	evicted []uint
}

func newRecordingCache() *recordingCache {
	return &recordingCache{stats: make(map[uint]model.TaskStats)}
}

func (c *recordingCache) LoadStats(_ context.Context, userID uint) (model.TaskStats, int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.stats[userID]
	return s, 0, ok
}

func (c *recordingCache) StoreStats(_ context.Context, userID uint, _ int64, s model.TaskStats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats[userID] = s
}

func (c *recordingCache) EvictStats(_ context.Context, userID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.stats, userID)
	c.evicted = append(c.evicted, userID)
}

func strPtr(s string) *string { return &s }
