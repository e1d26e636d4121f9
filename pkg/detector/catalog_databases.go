package detector

import "testfold/pkg/detector/manifest"

// Databases is the database catalogue.
func Databases() []Profile {
	allManifests := []string{"package.json", "go.mod", "Cargo.toml"}
	allManifests = append(allManifests, pythonManifests...)
	composeFiles := []string{"docker-compose.yml", "docker-compose.yaml", "compose.yml", "compose.yaml"}
	envFiles := []string{".env", ".env.example", ".env.local"}
	prisma := []string{"prisma/schema.prisma", "schema.prisma"}

	return []Profile{
		NewProfile("PostgreSQL").
			DependencyIn(allManifests, manifest.ScopeBoth, []string{"pg", "postgres", "pg-promise", "psycopg", "psycopg2", "psycopg2-binary", "asyncpg", "github.com/jackc/pgx/v5", "github.com/lib/pq", "tokio-postgres"}, WeightDependency, "postgres driver dependency").
			Content(composeFiles, `(?i)image:\s*["']?postgres`, WeightContent, "postgres service in compose file").
			Content(prisma, `provider\s*=\s*"postgresql"`, WeightContent, "prisma postgresql provider").
			Content(envFiles, `(?m)postgres(ql)?://`, WeightMinorIndicator, "postgres URL in env file").
			Threshold(0.25).
			Build(),

		NewProfile("MySQL").
			DependencyIn(allManifests, manifest.ScopeBoth, []string{"mysql", "mysql2", "pymysql", "mysqlclient", "github.com/go-sql-driver/mysql"}, WeightDependency, "mysql driver dependency").
			Content(composeFiles, `(?i)image:\s*["']?(mysql|mariadb)`, WeightContent, "mysql service in compose file").
			Content(prisma, `provider\s*=\s*"mysql"`, WeightContent, "prisma mysql provider").
			Content(envFiles, `(?m)mysql://`, WeightMinorIndicator, "mysql URL in env file").
			Threshold(0.25).
			Build(),

		NewProfile("MongoDB").
			DependencyIn(allManifests, manifest.ScopeBoth, []string{"mongodb", "mongoose", "pymongo", "motor", "go.mongodb.org/mongo-driver"}, WeightDependency, "mongodb driver dependency").
			Content(composeFiles, `(?i)image:\s*["']?mongo`, WeightContent, "mongo service in compose file").
			Content(prisma, `provider\s*=\s*"mongodb"`, WeightContent, "prisma mongodb provider").
			Content(envFiles, `(?m)mongodb(\+srv)?://`, WeightMinorIndicator, "mongodb URL in env file").
			Threshold(0.25).
			Build(),

		NewProfile("SQLite").
			DependencyIn(allManifests, manifest.ScopeBoth, []string{"sqlite3", "better-sqlite3", "sqlite", "github.com/mattn/go-sqlite3", "modernc.org/sqlite", "rusqlite"}, WeightDependency, "sqlite dependency").
			AnyFile([]string{"*.sqlite", "*.sqlite3", "db.sqlite3", "*.db"}, WeightContent, "sqlite database file").
			Content(prisma, `provider\s*=\s*"sqlite"`, WeightContent, "prisma sqlite provider").
			Threshold(0.25).
			Build(),

		NewProfile("Redis").
			DependencyIn(allManifests, manifest.ScopeBoth, []string{"redis", "ioredis", "github.com/redis/go-redis/v9", "github.com/go-redis/redis/v8"}, WeightDependency, "redis client dependency").
			Content(composeFiles, `(?i)image:\s*["']?redis`, WeightContent, "redis service in compose file").
			Content(envFiles, `(?m)rediss?://`, WeightMinorIndicator, "redis URL in env file").
			Threshold(0.25).
			Build(),
	}
}
