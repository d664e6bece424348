package data

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Drivers register themselves from init() in their own packages, following
// the database/sql pattern, and are looked up by the configured name.

// DatabaseDriver defines the interface for relational database drivers.
type DatabaseDriver interface {
	// Name returns the driver identifier used in configuration files.
	Name() string
	// Bindvar returns the placeholder style expected by the driver.
	Bindvar() Bindvar
	// IsUniqueViolation reports whether err is a unique or primary key
	// constraint violation raised by this driver.
	IsUniqueViolation(err error) bool
	// Connect opens a *sql.DB for the given *config.DBNode.
	Connect(ctx context.Context, cfg any) (any, error)
	Close(conn any) error
	Ping(ctx context.Context, conn any) error
}

// CacheDriver defines the interface for cache/key-value store drivers.
type CacheDriver interface {
	Name() string
	Connect(ctx context.Context, cfg any) (any, error)
	Close(conn any) error
	Ping(ctx context.Context, conn any) error
}

var (
	databaseDrivers   = make(map[string]DatabaseDriver)
	databaseDriversMu sync.RWMutex

	cacheDrivers   = make(map[string]CacheDriver)
	cacheDriversMu sync.RWMutex
)

// RegisterDatabaseDriver makes a database driver available by the provided name.
// It panics if driver is nil or registered twice.
func RegisterDatabaseDriver(driver DatabaseDriver) {
	databaseDriversMu.Lock()
	defer databaseDriversMu.Unlock()

	if driver == nil {
		panic("data: RegisterDatabaseDriver driver is nil")
	}
	name := driver.Name()
	if name == "" {
		panic("data: RegisterDatabaseDriver driver name is empty")
	}
	if _, exists := databaseDrivers[name]; exists {
		panic(fmt.Sprintf("data: RegisterDatabaseDriver called twice for driver %s", name))
	}
	databaseDrivers[name] = driver
}

// RegisterCacheDriver makes a cache driver available by the provided name.
func RegisterCacheDriver(driver CacheDriver) {
	cacheDriversMu.Lock()
	defer cacheDriversMu.Unlock()

	if driver == nil {
		panic("data: RegisterCacheDriver driver is nil")
	}
	name := driver.Name()
	if name == "" {
		panic("data: RegisterCacheDriver driver name is empty")
	}
	if _, exists := cacheDrivers[name]; exists {
		panic(fmt.Sprintf("data: RegisterCacheDriver called twice for driver %s", name))
	}
	cacheDrivers[name] = driver
}

// GetDatabaseDriver retrieves a registered database driver by name.
func GetDatabaseDriver(name string) (DatabaseDriver, error) {
	databaseDriversMu.RLock()
	defer databaseDriversMu.RUnlock()

	driver, ok := databaseDrivers[name]
	if !ok {
		return nil, fmt.Errorf("data: unknown database driver %q (forgotten import?), registered: %v",
			name, listDriversLocked(databaseDrivers))
	}
	return driver, nil
}

// GetCacheDriver retrieves a registered cache driver by name.
func GetCacheDriver(name string) (CacheDriver, error) {
	cacheDriversMu.RLock()
	defer cacheDriversMu.RUnlock()

	driver, ok := cacheDrivers[name]
	if !ok {
		return nil, fmt.Errorf("data: unknown cache driver %q (forgotten import?), registered: %v",
			name, listDriversLocked(cacheDrivers))
	}
	return driver, nil
}

// IsUniqueViolation reports whether any registered database driver
// recognises err as a unique constraint violation.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	databaseDriversMu.RLock()
	defer databaseDriversMu.RUnlock()
	for _, d := range databaseDrivers {
		if d.IsUniqueViolation(err) {
			return true
		}
	}
	return false
}

func listDriversLocked[T any](m map[string]T) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
