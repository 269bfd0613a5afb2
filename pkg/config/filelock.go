package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// staleAfter is how old a lock file must be before its owner is checked
const staleAfter = 5 * time.Minute

// ErrLocked is returned when another writer holds the settings file
var ErrLocked = errors.New("settings file is locked")

// FileLock guards a settings file with a sibling .lock file
type FileLock struct {
	path     string
	lockPath string
	file     *os.File
}

// LockConfig bounds how long Lock waits
type LockConfig struct {
	Timeout    time.Duration
	RetryDelay time.Duration
}

func DefaultLockConfig() LockConfig {
	return LockConfig{
		Timeout:    5 * time.Second,
		RetryDelay: 50 * time.Millisecond,
	}
}

func NewFileLock(path string) *FileLock {
	return &FileLock{path: path, lockPath: path + ".lock"}
}

// Lock retries until the lock is acquired or cfg.Timeout passes
func (fl *FileLock) Lock(cfg LockConfig) error {
	if fl.file != nil {
		return errors.New("lock already held")
	}
	if err := os.MkdirAll(filepath.Dir(fl.lockPath), 0755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	deadline := time.Now().Add(cfg.Timeout)
	for {
		err := fl.tryLock()
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrLocked) {
			return err
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: gave up on %s after %v", ErrLocked, fl.path, cfg.Timeout)
		}
		time.Sleep(cfg.RetryDelay)
	}
}

func (fl *FileLock) tryLock() error {
	file, err := os.OpenFile(fl.lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		if !os.IsExist(err) {
			return fmt.Errorf("failed to create lock file: %w", err)
		}
		if !fl.stale() {
			return ErrLocked
		}
		os.Remove(fl.lockPath)
		return ErrLocked
	}

	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		file.Close()
		os.Remove(fl.lockPath)
		if errors.Is(err, syscall.EWOULDBLOCK) {
			return ErrLocked
		}
		return fmt.Errorf("failed to lock %s: %w", fl.lockPath, err)
	}

	fmt.Fprintf(file, "pid:%d\ntime:%s\n", os.Getpid(), time.Now().Format(time.RFC3339))
	fl.file = file
	return nil
}

// stale reports an old lock whose process is gone
func (fl *FileLock) stale() bool {
	info, err := os.Stat(fl.lockPath)
	if err != nil {
		return true
	}
	if time.Since(info.ModTime()) < staleAfter {
		return false
	}

	data, err := os.ReadFile(fl.lockPath)
	if err != nil {
		return true
	}
	var pid int
	if _, err := fmt.Sscanf(string(data), "pid:%d", &pid); err != nil {
		return true
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return true
	}
	return proc.Signal(syscall.Signal(0)) != nil
}

// Unlock releases the lock; unlocking twice is a no-op
func (fl *FileLock) Unlock() error {
	if fl.file == nil {
		return nil
	}

	var errs []error
	if err := syscall.Flock(int(fl.file.Fd()), syscall.LOCK_UN); err != nil {
		errs = append(errs, err)
	}
	if err := fl.file.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := os.Remove(fl.lockPath); err != nil {
		errs = append(errs, err)
	}
	fl.file = nil
	return errors.Join(errs...)
}

func (fl *FileLock) IsLocked() bool {
	return fl.file != nil
}

// WithLock runs fn while holding the lock for path
func WithLock(path string, cfg LockConfig, fn func() error) (err error) {
	lock := NewFileLock(path)
	if err := lock.Lock(cfg); err != nil {
		return err
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil && err == nil {
			err = fmt.Errorf("failed to release lock: %w", unlockErr)
		}
	}()
	return fn()
}
