package cache

import (
    "encoding/json"
    "errors"
    "io/fs"
    "os"
    "path/filepath"
    "strings"
    "time"
)

// ClearDir removes the directory and all contents. It recreates the directory
// afterwards to leave a valid empty cache location.
func ClearDir(dir string) error {
    if strings.TrimSpace(dir) == "" {
        return errors.New("empty dir")
    }
    if err := os.RemoveAll(dir); err != nil {
        return err
    }
    return os.MkdirAll(dir, 0o755)
}

// PurgeHTTPCacheByAge removes HTTP cache entries older than maxAge.
// It inspects <key>.meta.json for SavedAt and deletes both meta and the
// corresponding <key>.body when expired.
func PurgeHTTPCacheByAge(dir string, maxAge time.Duration) (int, error) {
    if maxAge <= 0 {
        return 0, nil
    }
    now := time.Now().UTC()
    removed := 0
    err := walkFiles(dir, func(path string, d fs.DirEntry) {
        if !strings.HasSuffix(d.Name(), ".meta.json") {
            return
        }
        b, err := os.ReadFile(path)
        if err != nil {
            return
        }
        var e HTTPEntry
        if err := json.Unmarshal(b, &e); err != nil {
            return
        }
        if now.Sub(e.SavedAt) <= maxAge {
            return
        }
        removed++
        _ = os.Remove(path)
        _ = os.Remove(strings.TrimSuffix(path, ".meta.json") + ".body")
    })
    return removed, err
}

// PurgeLLMCacheByAge removes summary cache entries (.json) whose modification
// time is older than maxAge.
func PurgeLLMCacheByAge(dir string, maxAge time.Duration) (int, error) {
    return purgeByModTime(dir, ".json", maxAge)
}

// PurgeAudioCacheByAge removes speech clips (.wav) older than maxAge.
func PurgeAudioCacheByAge(dir string, maxAge time.Duration) (int, error) {
    return purgeByModTime(dir, ".wav", maxAge)
}

func purgeByModTime(dir, suffix string, maxAge time.Duration) (int, error) {
    if maxAge <= 0 {
        return 0, nil
    }
    now := time.Now().UTC()
    removed := 0
    err := walkFiles(dir, func(path string, d fs.DirEntry) {
        name := d.Name()
        if !strings.HasSuffix(name, suffix) || strings.HasSuffix(name, ".meta.json") {
            return
        }
        info, err := d.Info()
        if err != nil {
            return
        }
        if now.Sub(info.ModTime().UTC()) <= maxAge {
            return
        }
        removed++
        _ = os.Remove(path)
    })
    return removed, err
}

// walkFiles visits regular files under dir. A missing dir is not an error.
func walkFiles(dir string, fn func(path string, d fs.DirEntry)) error {
    err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
        if err != nil {
            return err
        }
        if !d.IsDir() {
            fn(path, d)
        }
        return nil
    })
    if errors.Is(err, fs.ErrNotExist) {
        return nil
    }
    return err
}
