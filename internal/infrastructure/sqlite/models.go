package sqlite

import (
	"time"

	"github.com/shopspring/decimal"
)

// Modelos GORM. Los nombres de tabla coinciden con las migraciones de PostgreSQL.

type userModel struct {
	ID           int64     `gorm:"primaryKey"`
	Email        string    `gorm:"size:254;uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Name         string    `gorm:"size:255;not null;default:''"`
	IsActive     bool      `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (userModel) TableName() string { return "users" }

type categoryModel struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"size:255;index;not null"`
}

func (categoryModel) TableName() string { return "categories" }

type productModel struct {
	ID          int64           `gorm:"primaryKey"`
	Name        string          `gorm:"size:255;uniqueIndex;not null"`
	Description string          `gorm:"not null"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Stock       int             `gorm:"not null"`
	CategoryID  int64           `gorm:"index;not null"`
	Category    *categoryModel  `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

func (productModel) TableName() string { return "products" }

type orderModel struct {
	ID       int64      `gorm:"primaryKey"`
	UserID   int64      `gorm:"index;not null"`
	User     *userModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Quantity int        `gorm:"not null"`
	Date     time.Time  `gorm:"not null"`
}

func (orderModel) TableName() string { return "orders" }

// orderProductModel una fila por producto del pedido; ID propio para admitir repetidos.
type orderProductModel struct {
	ID        int64         `gorm:"primaryKey"`
	OrderID   int64         `gorm:"index;not null"`
	Order     *orderModel   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ProductID int64         `gorm:"not null"`
	Product   *productModel `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (orderProductModel) TableName() string { return "order_products" }

// productRow proyección de products JOIN categories.
type productRow struct {
	ID           int64
	Name         string
	Description  string
	Price        decimal.Decimal
	Stock        int
	CategoryID   int64
	CategoryName string
}

const productRowSelect = "p.id, p.name, p.description, p.price, p.stock, p.category_id, c.name AS category_name"
