package main

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gorm.io/gorm"

	"jobLobby/internal/auth"
	"jobLobby/internal/config"
	"jobLobby/internal/database"
)

func main() {
	var (
		username = flag.String("username", "", "初始管理员用户名（必填）")
		email    = flag.String("email", "", "初始管理员邮箱（必填）")
		dbHost   = flag.String("db-host", "", "数据库 Host（可选，默认读 DATABASE_HOST）")
		dbPort   = flag.Int("db-port", 0, "数据库 Port（可选，默认读 DATABASE_PORT）")
		dbName   = flag.String("db-name", "", "数据库名（可选，默认读 POSTGRES_DB）")
		dbUser   = flag.String("db-user", "", "数据库用户（可选，默认读 POSTGRES_USER）")
		dbPass   = flag.String("db-password", "", "数据库密码（可选，默认读 POSTGRES_PASSWORD）")
		sslMode  = flag.String("db-sslmode", "", "数据库 SSLMODE（可选，默认读 DATABASE_SSLMODE）")
	)
	flag.Parse()

	u := strings.TrimSpace(*username)
	if u == "" {
		log.Fatal("missing required flag: --username")
	}
	mail := strings.ToLower(strings.TrimSpace(*email))
	if mail == "" {
		log.Fatal("missing required flag: --email")
	}

	dbCfg, err := loadDatabaseConfig(*dbHost, *dbPort, *dbName, *dbUser, *dbPass, *sslMode)
	if err != nil {
		log.Fatalf("load database config: %v", err)
	}

	db, err := database.InitDatabase(dbCfg)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	var existing database.User
	switch err := db.Where("username = ? OR email = ?", u, mail).First(&existing).Error; {
	case err == nil:
		log.Fatalf("user %q or %q already exists", u, mail)
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		log.Fatalf("query user: %v", err)
	}

	password, err := generateRandomPassword(24)
	if err != nil {
		log.Fatalf("generate password: %v", err)
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	user := database.User{
		Username:           u,
		Email:              mail,
		PasswordHash:       hashed,
		Role:               database.RoleAdmin,
		MustChangePassword: true,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("create user: %v", err)
	}

	fmt.Printf("已创建初始管理员账号（首次登录需强制改密）：\n")
	fmt.Printf("用户名: %s\n", u)
	fmt.Printf("邮箱: %s\n", mail)
	fmt.Printf("初始密码: %s\n", password)
	fmt.Printf("提示：请立即登录并通过 PUT /api/auth/profile 修改密码（该密码仅显示一次）。\n")
}

// loadDatabaseConfig 读取数据库配置：命令行参数优先，其次环境变量（含 .env），最后默认值。
func loadDatabaseConfig(host string, port int, name, user, password, sslmode string) (config.DatabaseConfig, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("host", "localhost")
	v.SetDefault("port", 5432)
	v.SetDefault("sslmode", "disable")
	envs := map[string][]string{
		"host":     {"DATABASE_HOST"},
		"port":     {"DATABASE_PORT"},
		"name":     {"POSTGRES_DB", "DB_NAME"},
		"user":     {"POSTGRES_USER", "DB_USER"},
		"password": {"POSTGRES_PASSWORD", "DB_PASSWORD"},
		"sslmode":  {"DATABASE_SSLMODE"},
	}
	for key, names := range envs {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return config.DatabaseConfig{}, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	flags := map[string]string{"host": host, "name": name, "user": user, "password": password, "sslmode": sslmode}
	for key, value := range flags {
		if strings.TrimSpace(value) != "" {
			v.Set(key, value)
		}
	}
	if port > 0 {
		v.Set("port", port)
	}

	cfg := config.DatabaseConfig{
		Host:     v.GetString("host"),
		Port:     v.GetInt("port"),
		Name:     v.GetString("name"),
		User:     v.GetString("user"),
		Password: v.GetString("password"),
		SSLMode:  v.GetString("sslmode"),
	}
	switch {
	case cfg.Port <= 0:
		return config.DatabaseConfig{}, errors.New("database port must be positive (DATABASE_PORT)")
	case strings.TrimSpace(cfg.Name) == "":
		return config.DatabaseConfig{}, errors.New("database name is required (POSTGRES_DB)")
	case strings.TrimSpace(cfg.User) == "":
		return config.DatabaseConfig{}, errors.New("database user is required (POSTGRES_USER)")
	case strings.TrimSpace(cfg.Password) == "":
		return config.DatabaseConfig{}, errors.New("database password is required (POSTGRES_PASSWORD)")
	}
	return cfg, nil
}

func generateRandomPassword(bytesLen int) (string, error) {
	if bytesLen <= 0 {
		bytesLen = 24
	}
	buf := make([]byte, bytesLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
