package client

import (
	"fmt"
	"io"

	"github.com/spaceandtimelabs/ignite-go/protocol"
	"github.com/spaceandtimelabs/ignite-go/protocol/object"
)

// Response payload parsers. Each returns a parse callback for
// Conn.SendAndRead that stores its result through the given pointer.

func readBoolResp(dst *bool) func(io.Reader) error {
	return func(r io.Reader) error {
		v, err := protocol.ReadBool(r)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

func readIntResp(dst *int32) func(io.Reader) error {
	return func(r io.Reader) error {
		v, err := protocol.ReadInt32(r)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

func readLongResp(dst *int64) func(io.Reader) error {
	return func(r io.Reader) error {
		v, err := protocol.ReadInt64(r)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

func readValueResp(schema *object.Schema, dst *object.Value) func(io.Reader) error {
	return func(r io.Reader) error {
		v, err := object.ReadWithSchema(r, schema)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

// rawPair is a decoded key/value pair before the typed assertion of the
// cache handle.
type rawPair struct {
	key   object.Value
	value object.Value
}

func readPair(r io.Reader, keySchema, valueSchema *object.Schema) (rawPair, error) {
	var p rawPair
	var err error
	if p.key, err = object.ReadWithSchema(r, keySchema); err != nil {
		return p, fmt.Errorf("read pair key: %w", err)
	}
	if p.value, err = object.ReadWithSchema(r, valueSchema); err != nil {
		return p, fmt.Errorf("read pair value: %w", err)
	}
	return p, nil
}

func readPairsResp(keySchema, valueSchema *object.Schema, dst *[]rawPair) func(io.Reader) error {
	return func(r io.Reader) error {
		count, err := protocol.ReadInt32(r)
		if err != nil {
			return err
		}
		if count < 0 {
			return fmt.Errorf("negative pair count %d", count)
		}
		pairs := make([]rawPair, 0, count)
		for i := int32(0); i < count; i++ {
			p, err := readPair(r, keySchema, valueSchema)
			if err != nil {
				return err
			}
			pairs = append(pairs, p)
		}
		*dst = pairs
		return nil
	}
}

// queryPage is one page of a query cursor.
type queryPage struct {
	cursorID int64
	pairs    []rawPair
	more     bool
}

// readQueryResp decodes the first page of a scan or SQL query response:
// cursor id, row count, rows, has-more flag.
func readQueryResp(keySchema, valueSchema *object.Schema, dst *queryPage) func(io.Reader) error {
	return func(r io.Reader) error {
		id, err := protocol.ReadInt64(r)
		if err != nil {
			return err
		}
		page := queryPage{cursorID: id}
		if err := readCursorPage(r, keySchema, valueSchema, &page); err != nil {
			return err
		}
		*dst = page
		return nil
	}
}

// readCursorPageResp decodes a next-page response, which repeats the row
// block without the cursor id.
func readCursorPageResp(keySchema, valueSchema *object.Schema, dst *queryPage) func(io.Reader) error {
	return func(r io.Reader) error {
		page := queryPage{cursorID: dst.cursorID}
		if err := readCursorPage(r, keySchema, valueSchema, &page); err != nil {
			return err
		}
		*dst = page
		return nil
	}
}

func readCursorPage(r io.Reader, keySchema, valueSchema *object.Schema, page *queryPage) error {
	count, err := protocol.ReadInt32(r)
	if err != nil {
		return err
	}
	if count < 0 {
		return fmt.Errorf("negative row count %d", count)
	}
	page.pairs = make([]rawPair, 0, count)
	for i := int32(0); i < count; i++ {
		p, err := readPair(r, keySchema, valueSchema)
		if err != nil {
			return err
		}
		page.pairs = append(page.pairs, p)
	}
	page.more, err = protocol.ReadBool(r)
	return err
}

func readNamesResp(dst *[]string) func(io.Reader) error {
	return func(r io.Reader) error {
		count, err := protocol.ReadInt32(r)
		if err != nil {
			return err
		}
		if count < 0 {
			return fmt.Errorf("negative name count %d", count)
		}
		names := make([]string, 0, count)
		for i := int32(0); i < count; i++ {
			s, err := protocol.ReadTypedString(r)
			if err != nil {
				return err
			}
			if s == nil {
				return fmt.Errorf("null cache name at index %d", i)
			}
			names = append(names, *s)
		}
		*dst = names
		return nil
	}
}

// readConfigResp decodes a get-configuration response: a length field
// followed by the fixed-order configuration.
func readConfigResp(dst **CacheConfiguration) func(io.Reader) error {
	return func(r io.Reader) error {
		if _, err := protocol.ReadInt32(r); err != nil {
			return err
		}
		cfg, err := readCacheConfiguration(r)
		if err != nil {
			return err
		}
		*dst = cfg
		return nil
	}
}
