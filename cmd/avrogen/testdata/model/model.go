package model

import (
	"database/sql"
	"math/big"
	"time"
)

// Level of a reading.
type Level int

const (
	Low Level = iota
	Mid
	High
)

type Celsius float64

// Sensor is a device.
type Sensor struct {
	// Serial is the factory serial number.
	Serial    string `avro:"serial"`
	Readings  []Reading
	Parent    *Sensor
	Tags      map[string]string
	Raw       []byte
	Installed time.Time
	Retired   sql.NullTime
	Price     *big.Rat
	Level     Level
	Temp      Celsius
	Timeout   time.Duration

	secret string
}

type Reading struct {
	Base
	Value float64
	Note  string `avro:"note,nullable"`
	Skip  int    `avro:"-"`
}

type Base struct {
	// At is when it was taken.
	At time.Time
}

type Page[T any] struct {
	Items []T
}

type ReadingPage struct {
	Page Page[Reading]
}

type notExported struct {
	A int
}

const Boiling Celsius = 100

type Retries int

const DefaultRetries Retries = 3

type Policy struct {
	Retries Retries
	Boil    Celsius
}

type Chain struct {
	*Chain
	V int
}
