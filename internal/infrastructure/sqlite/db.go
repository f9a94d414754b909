package sqlite

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jhoicas/tienda-api/internal/application/usecase"
)

// MemoryPath abre una base en memoria (tests y demos).
const MemoryPath = ":memory:"

// Open abre (creando el archivo si no existe) la base SQLite en path con claves
// foráneas activas. Con autoMigrate=true crea o actualiza el esquema.
// El pool se limita a una conexión: SQLite admite un único escritor y una base
// en memoria vive solo mientras su conexión siga abierta.
func Open(path string, autoMigrate bool) (*gorm.DB, error) {
	if path == "" {
		path = MemoryPath
	}
	if path != MemoryPath {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("crear directorio de la base: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(withForeignKeys(path)), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("obtener sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if autoMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// Migrate crea o actualiza las tablas a partir de los modelos.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(&userModel{}, &categoryModel{}, &productModel{}, &orderModel{}, &orderProductModel{})
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// NewRepositories arma el conjunto de repositorios sobre db (base o tx).
func NewRepositories(db *gorm.DB) usecase.Repositories {
	return usecase.Repositories{
		Categories: NewCategoryRepository(db),
		Products:   NewProductRepository(db),
		Orders:     NewOrderRepository(db),
		Users:      NewUserRepository(db),
	}
}

func withForeignKeys(path string) string {
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on"
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || (err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed"))
}

func isForeignKeyViolation(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated) || (err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed"))
}
