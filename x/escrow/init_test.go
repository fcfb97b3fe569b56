package escrow

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/iov-one/custodia"
	"github.com/iov-one/custodia/store"
)

func TestFromGenesis(t *testing.T) {
	Convey("Given a genesis with configuration and an escrow", t, func() {
		const genesis = `
{
  "conf": {
    "escrow": {"anyone_can_refund": true}
  },
  "escrow": {
    "arbiter": "0000000000000000000000000000000000000001",
    "recipient": "C30A2424104F542576EF01FECA2FF558F5EAA61A",
    "source": "0000000000000000000000000000000000000002",
    "end_height": 1000,
    "end_time": 1234567890
  }
}`
		var opts custodia.Options
		So(json.Unmarshal([]byte(genesis), &opts), ShouldBeNil)

		db := store.MemStore()

		Convey("When the initializer runs", func() {
			So(Initializer{}.FromGenesis(opts, db), ShouldBeNil)

			Convey("Then the configuration is stored", func() {
				conf, err := loadConf(db)
				So(err, ShouldBeNil)
				So(conf.AnyoneCanRefund, ShouldBeTrue)
			})

			Convey("And the escrow is stored", func() {
				e, err := loadEscrow(db)
				So(err, ShouldBeNil)
				So(e.Arbiter.String(), ShouldEqual, "0000000000000000000000000000000000000001")
				So(e.Recipient.String(), ShouldEqual, "C30A2424104F542576EF01FECA2FF558F5EAA61A")
				So(e.Source.String(), ShouldEqual, "0000000000000000000000000000000000000002")
				So(e.EndHeight, ShouldEqual, 1000)
				So(e.EndTime, ShouldEqual, custodia.UnixTime(1234567890))
				So(e.Address.Equals(ContractAddress()), ShouldBeTrue)
			})
		})
	})

	Convey("Given a genesis without any escrow data", t, func() {
		db := store.MemStore()

		So(Initializer{}.FromGenesis(custodia.Options{}, db), ShouldBeNil)

		Convey("Then a default configuration is saved", func() {
			conf, err := loadConf(db)
			So(err, ShouldBeNil)
			So(conf.AnyoneCanRefund, ShouldBeFalse)
		})

		Convey("And no escrow exists", func() {
			So(hasEscrow(db), ShouldBeFalse)
		})
	})

	Convey("Given a genesis with a broken escrow", t, func() {
		const genesis = `{"escrow": {"arbiter": "0000000000000000000000000000000000000001"}}`
		var opts custodia.Options
		So(json.Unmarshal([]byte(genesis), &opts), ShouldBeNil)

		db := store.MemStore()

		Convey("Then the initializer refuses it", func() {
			So(Initializer{}.FromGenesis(opts, db), ShouldNotBeNil)
			So(hasEscrow(db), ShouldBeFalse)
		})
	})
}
