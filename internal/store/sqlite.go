package store

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// entry is a single persisted key/value pair.
type entry struct {
	Key   string         `gorm:"primaryKey;column:key"`
	Value datatypes.JSON `gorm:"column:value"`
}

func (entry) TableName() string {
	return "kv_entries"
}

// SQLite is a file-backed Store. It stands in for the browser's persistent
// storage: a single local file, one row per key.
type SQLite struct {
	db *gorm.DB
}

// OpenSQLite opens (creating if needed) the store file at dbPath.
func OpenSQLite(dbPath string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&entry{}); err != nil {
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(key string, out any) bool {
	var e entry
	if err := s.db.First(&e, "key = ?", key).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Printf("ERROR [store.Get] read %q: %v", key, err)
		}
		return false
	}
	return json.Unmarshal([]byte(e.Value), out) == nil
}

func (s *SQLite) Set(key string, value any) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		return false
	}
	e := entry{Key: key, Value: datatypes.JSON(raw)}
	if err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&e).Error; err != nil {
		log.Printf("ERROR [store.Set] write %q: %v", key, err)
		return false
	}
	return true
}

func (s *SQLite) Remove(key string) bool {
	if err := s.db.Delete(&entry{}, "key = ?", key).Error; err != nil {
		log.Printf("ERROR [store.Remove] delete %q: %v", key, err)
		return false
	}
	return true
}

func (s *SQLite) Clear() bool {
	if err := s.db.Where("1 = 1").Delete(&entry{}).Error; err != nil {
		log.Printf("ERROR [store.Clear] %v", err)
		return false
	}
	return true
}
