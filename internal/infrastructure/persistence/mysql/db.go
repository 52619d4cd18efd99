package mysql

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/migrations"
)

// NewDB 创建数据库连接
// 1. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 2. debug模式打印SQL
// 3. 按database.migrate执行迁移：goose(版本化脚本) | auto(AutoMigrate) | none
func NewDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, func(), error) {
	logLevel := gormlogger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}
	logger.Info("数据库连接成功",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName),
	)

	if err := migrate(db, sqlDB, cfg.Database.Migrate, logger); err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	cleanup := func() {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("关闭数据库连接失败", zap.Error(err))
		}
	}
	return db, cleanup, nil
}

func migrate(db *gorm.DB, sqlDB *sql.DB, mode string, logger *zap.Logger) error {
	switch strings.ToLower(mode) {
	case "", "goose":
		goose.SetBaseFS(migrations.FS)
		goose.SetLogger(gooseLogger{logger.Sugar()})
		if err := goose.SetDialect("mysql"); err != nil {
			return err
		}
		return goose.Up(sqlDB, ".")
	case "auto":
		// 仅用于本地开发，AutoMigrate不会删除或修改已有字段
		return db.AutoMigrate(
			&UserModel{},
			&BookModel{},
			&CartModel{},
			&CartItemModel{},
			&OrderModel{},
			&OrderItemModel{},
		)
	case "none":
		return nil
	default:
		return fmt.Errorf("不支持的迁移方式: %s", mode)
	}
}

// gooseLogger 把goose的日志输出到zap
type gooseLogger struct {
	s *zap.SugaredLogger
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) { l.s.Fatalf(format, v...) }
func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.s.Infof(strings.TrimSuffix(format, "\n"), v...)
}
