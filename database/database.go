// Package database - mirrors merged version records into ArangoDB
package database

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/arangodb/go-driver/v2/connection"
	"github.com/cenkalti/backoff"
	"go.uber.org/zap"

	"github.com/modpublish/versiondb/config"
	"github.com/modpublish/versiondb/model"
)

// CollectionName is the document collection holding one document per version
const CollectionName = "mcversion"

// DBConnection is the structure that defined the database engine and collections
type DBConnection struct {
	Collection arangodb.Collection
	Database   arangodb.Database
	logger     *zap.Logger
}

func dbConnectionConfig(endpoint connection.Endpoint, dbuser string, dbpass string) connection.HttpConfiguration {
	return connection.HttpConfiguration{
		Authentication: connection.NewBasicAuth(dbuser, dbpass),
		Endpoint:       endpoint,
		ContentType:    connection.ApplicationJSON,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true, // #nosec G402
			},
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 90 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}

// Connect dials ArangoDB with backoff, then ensures the database, the version
// collection and its index exist
func Connect(ctx context.Context, cfg config.ArangoConfig, logger *zap.Logger) (*DBConnection, error) {
	const initialInterval = 2 * time.Second
	const maxInterval = 30 * time.Second
	const maxElapsed = 2 * time.Minute

	if logger == nil {
		logger = zap.NewNop()
	}

	var client arangodb.Client

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initialInterval
	bo.MaxInterval = maxInterval
	bo.MaxElapsedTime = maxElapsed

	err := backoff.RetryNotify(func() error {
		logger.Info("Attempting to connect to ArangoDB", zap.String("url", cfg.URL))
		endpoint := connection.NewRoundRobinEndpoints([]string{cfg.URL})
		conn := connection.NewHttpConnection(dbConnectionConfig(endpoint, cfg.User, cfg.Password))

		client = arangodb.NewClient(conn)

		// Ask the version of the server
		versionInfo, err := client.Version(ctx)
		if err != nil {
			return err
		}

		logger.Sugar().Infof("Database has version '%s' and license '%s'", versionInfo.Version, versionInfo.License)
		return nil
	}, backoff.WithContext(bo, ctx), func(err error, next time.Duration) {
		logger.Warn("Retrying connection to ArangoDB", zap.Error(err), zap.Duration("next", next))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ArangoDB: %w", err)
	}

	db, err := ensureDatabase(ctx, client, cfg.Database)
	if err != nil {
		return nil, err
	}

	col, err := ensureCollection(ctx, db)
	if err != nil {
		return nil, err
	}

	return &DBConnection{Database: db, Collection: col, logger: logger}, nil
}

func ensureDatabase(ctx context.Context, client arangodb.Client, name string) (arangodb.Database, error) {
	exists := false
	dblist, err := client.Databases(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list databases: %w", err)
	}

	for _, dbinfo := range dblist {
		if dbinfo.Name() == name {
			exists = true
			break
		}
	}

	if exists {
		var options arangodb.GetDatabaseOptions
		db, err := client.GetDatabase(ctx, name, &options)
		if err != nil {
			return nil, fmt.Errorf("failed to get database %s: %w", name, err)
		}
		return db, nil
	}

	db, err := client.CreateDatabase(ctx, name, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create database %s: %w", name, err)
	}
	return db, nil
}

func ensureCollection(ctx context.Context, db arangodb.Database) (arangodb.Collection, error) {
	var col arangodb.Collection

	exists, err := db.CollectionExists(ctx, CollectionName)
	if err != nil {
		return nil, fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		var options arangodb.GetCollectionOptions
		if col, err = db.GetCollection(ctx, CollectionName, &options); err != nil {
			return nil, fmt.Errorf("failed to use collection: %w", err)
		}
	} else {
		if col, err = db.CreateCollectionV2(ctx, CollectionName, nil); err != nil {
			return nil, fmt.Errorf("failed to create collection: %w", err)
		}
	}

	found := false
	if indexes, err := col.Indexes(ctx); err == nil {
		for _, index := range indexes {
			if index.Name == "mcversion_v" {
				found = true
				break
			}
		}
	}

	if !found {
		unique := true
		sparse := false
		indexOptions := arangodb.CreatePersistentIndexOptions{
			Unique: &unique,
			Sparse: &sparse,
			Name:   "mcversion_v",
		}
		if _, _, err := col.EnsurePersistentIndex(ctx, []string{"v"}, &indexOptions); err != nil {
			return nil, fmt.Errorf("failed to create index: %w", err)
		}
	}

	return col, nil
}

// SaveVersions upserts every record keyed by version id in a single query and
// returns the number of documents written
func (c *DBConnection) SaveVersions(ctx context.Context, records []model.MergedRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	query := `
		FOR rec IN @records
			UPSERT { v: rec.v }
			INSERT MERGE(rec, { objtype: "MinecraftVersion" })
			UPDATE { t: rec.t, i: rec.i, d: rec.d } IN @@collection
			RETURN 1
	`
	bindVars := map[string]interface{}{
		"@collection": CollectionName,
		"records":     records,
	}

	cursor, err := c.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: bindVars,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to upsert versions: %w", err)
	}
	defer cursor.Close()

	written := 0
	for cursor.HasMore() {
		var one int
		if _, err := cursor.ReadDocument(ctx, &one); err != nil {
			return written, fmt.Errorf("failed to read upsert result: %w", err)
		}
		written++
	}

	c.logger.Info("Mirrored versions to ArangoDB", zap.Int("count", written))
	return written, nil
}
