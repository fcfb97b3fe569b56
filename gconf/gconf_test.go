package gconf

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/custodia"
	"github.com/iov-one/custodia/custodiatest/assert"
	"github.com/iov-one/custodia/errors"
	"github.com/iov-one/custodia/store"
)

// textConf is the simplest possible configuration object
type textConf struct {
	Raw string `json:"raw"`
}

func (c *textConf) Marshal() ([]byte, error) {
	return []byte(c.Raw), nil
}

func (c *textConf) Unmarshal(raw []byte) error {
	c.Raw = string(raw)
	return nil
}

func (c *textConf) Validate() error {
	if c.Raw == "" {
		return errors.Wrap(errors.ErrEmpty, "raw")
	}
	return nil
}

func TestSaveLoad(t *testing.T) {
	db := store.MemStore()

	src := textConf{Raw: "payload"}
	assert.Nil(t, Save(db, "demo", &src))

	var dst textConf
	assert.Nil(t, Load(db, "demo", &dst))
	assert.Equal(t, src, dst)
}

func TestSaveRejectsInvalid(t *testing.T) {
	db := store.MemStore()
	err := Save(db, "demo", &textConf{})
	assert.IsErr(t, errors.ErrEmpty, err)
}

func TestLoadMissing(t *testing.T) {
	db := store.MemStore()
	var dst textConf
	err := Load(db, "demo", &dst)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestInitConfig(t *testing.T) {
	db := store.MemStore()
	opts := custodia.Options{
		"conf": json.RawMessage(`{"demo": {"raw": "from genesis"}}`),
	}

	var conf textConf
	assert.Nil(t, InitConfig(db, opts, "demo", &conf))
	assert.Equal(t, "from genesis", conf.Raw)

	var loaded textConf
	assert.Nil(t, Load(db, "demo", &loaded))
	assert.Equal(t, conf, loaded)
}
