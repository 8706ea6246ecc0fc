// Package influxdb exports opencensus view data to an influxdb backend.
package influxdb

import (
	"context"
	"time"

	influxdb "github.com/influxdata/influxdb/client/v2"
)

// MetricPoint represents a single row in a batch of measurements
type MetricPoint struct {
	Measurement string
	Tags        map[string]string
	Fields      map[string]interface{}
	Timestamp   time.Time
}

// Store provides write access to an influxdb database for metrics
type Store interface {
	Database() string
	Ping(context.Context, time.Duration) error
	WriteBatch(context.Context, []MetricPoint) error
	Close() error
}

var _ Store = &influxDB{}

// influxDB holds the connection settings until the client is built, so
// options may be applied in any order.
type influxDB struct {
	addr     string
	user     string
	password string
	insecure bool
	timeout  time.Duration
	database string
	mapper   func(string, map[string]string) (string, map[string]string)

	client influxdb.Client
}

// NewStore builds an instance of Store with some options
func NewStore(opts ...StoreOption) (Store, error) {
	db := &influxDB{
		addr:     "http://localhost:8086",
		user:     "admin",
		insecure: true,
		database: "kamu-bootstrap",
	}
	for _, apply := range opts {
		apply(db)
	}
	c, err := influxdb.NewHTTPClient(influxdb.HTTPConfig{
		Addr:               db.addr,
		Username:           db.user,
		Password:           db.password,
		InsecureSkipVerify: db.insecure,
		Timeout:            db.timeout,
	})
	if err != nil {
		return nil, err
	}
	db.client = c
	return db, nil
}

func (db *influxDB) Database() string {
	return db.database
}

func (db *influxDB) Ping(_ context.Context, timeout time.Duration) error {
	_, _, err := db.client.Ping(timeout)
	return err
}

func (db *influxDB) Close() error {
	return db.client.Close()
}

func (db *influxDB) WriteBatch(_ context.Context, points []MetricPoint) error {
	batch, err := influxdb.NewBatchPoints(influxdb.BatchPointsConfig{
		Database:  db.database,
		Precision: "s",
	})
	if err != nil {
		return err
	}
	for _, point := range points {
		name, tags := point.Measurement, point.Tags
		if db.mapper != nil {
			name, tags = db.mapper(name, tags)
		}
		pt, erp := influxdb.NewPoint(name, tags, point.Fields, point.Timestamp)
		if erp != nil {
			return erp
		}
		batch.AddPoint(pt)
	}
	return db.client.Write(batch)
}
