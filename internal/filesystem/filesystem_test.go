package filesystem

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestAPI(t *testing.T) {
	Convey("Filesystem API", t, func() {
		Convey("Should default to OsFs", func() {
			SetOsFs()
			fs := API()
			So(fs.Name(), ShouldEqual, "OsFs")
		})

		Convey("Should switch to a fresh MemMapFs", func() {
			SetMemMapFs()
			So(API().WriteFile("/movie.srt", []byte("1"), 0644), ShouldBeNil)
			So(API().Name(), ShouldEqual, "MemMapFS")

			SetMemMapFs()
			exists, err := API().Exists("/movie.srt")
			So(err, ShouldBeNil)
			So(exists, ShouldBeFalse)
		})

		Reset(SetOsFs)
	})
}
