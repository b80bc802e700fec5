package logging

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/mixpanel/graphite/util"
)

type Fields map[string]interface{}

var localhostFields Fields

func init() {
	localhostFields = getLocalhostFields()
}

// MergeFields creates a new Fields set by merging a and b.
func MergeFields(a, b Fields) Fields {
	merged := make(Fields, len(a)+len(b))
	for k, v := range a {
		merged[k] = v
	}
	for k, v := range b {
		merged[k] = v
	}
	return merged
}

// Update returns a copy of fields with the entries of other added on top.
func (fields Fields) Update(other Fields) Fields {
	return MergeFields(fields, other)
}

func (fields Fields) Dupe() Fields {
	dupe := make(Fields, len(fields))
	for k, v := range fields {
		dupe[k] = v
	}
	return dupe
}

type errWithVals interface {
	Vals() map[string]interface{}
}

// WithError adds the error message and, for errors carrying key/value data such as
// obserr.Error, every one of those values.
func (fields Fields) WithError(err error) Fields {
	res := fields.Dupe()

	var ev errWithVals
	if errors.As(err, &ev) {
		for k, v := range ev.Vals() {
			res[k] = v
		}
	}

	res["error_message"] = fmt.Sprintf("%v", err)
	return res
}

func getLocalhostFields() Fields {
	fields := make(Fields)
	fields["pid"] = os.Getpid()
	fields["executable"] = os.Args[0]
	// os.Getpid() repeats across container restarts, so tag each process with a random id
	instanceID := []byte{0, 0, 0, 0}
	_, _ = rand.Read(instanceID)
	fields["instance_id"] = hex.EncodeToString(instanceID)

	hostInfo, err := util.LocalHostInfo()
	if err != nil {
		initError(fmt.Sprintf("Unable to lookup localhost hostname: %v.", err))
		return fields
	}
	if hostInfo == nil {
		initError("Localhost hostname is empty.")
		return fields
	}

	for k, v := range hostInfo.Map() {
		fields[k] = v
	}
	return fields
}
