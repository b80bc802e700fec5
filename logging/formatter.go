package logging

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"time"

	jsoniter "github.com/json-iterator/go"
)

type format int

const (
	formatJSON = format(iota)
	formatText
	formatHuman
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var myPid = os.Getpid()

const timeFormatStr = "2006-01-02 15:04:05.000"

func jsonFormatter(lvl level, name, message string, fields Fields) string {
	fields = MergeFields(fields, localhostFields)
	fields["logger"] = name
	fields["severity"] = levelToString(lvl)
	fields["message"] = message
	fields["time"] = time.Now().UTC().Format(time.RFC3339Nano)

	formatted, err := json.Marshal(fields)
	if err != nil {
		return `{"severity": "ERROR", "message": "Failed to serialize to JSON."}`
	}
	return string(formatted)
}

func textFormatter(lvl level, name, message string, fields Fields) string {
	buffer := bytes.NewBuffer(make([]byte, 0, len(message)*2))

	if name == "" {
		fmt.Fprintf(buffer, "[%s] pid=%d [%s]: ", time.Now().Format(timeFormatStr), myPid, levelToString(lvl))
	} else {
		fmt.Fprintf(buffer, "[%s] pid=%d [%s] %s: ", time.Now().Format(timeFormatStr), myPid, levelToString(lvl), name)
	}
	formatFields(buffer, message, fields)

	return buffer.String()
}

func humanFormatter(lvl level, name, message string, fields Fields) string {
	buffer := bytes.NewBuffer(make([]byte, 0, len(message)*2))

	if name == "" {
		fmt.Fprintf(buffer, "[%s]: ", levelToString(lvl))
	} else {
		fmt.Fprintf(buffer, "[%s] %s: ", levelToString(lvl), name)
	}
	formatFields(buffer, message, fields)

	return buffer.String()
}

func formatFields(buffer *bytes.Buffer, message string, fields Fields) {
	buffer.WriteString(message)

	if len(fields) == 0 {
		return
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buffer.WriteString(" | ")
	for i, k := range keys {
		buffer.WriteString(k)
		buffer.WriteByte('=')
		fmt.Fprintf(buffer, "%v", fields[k])

		if i < len(keys)-1 {
			buffer.WriteString(", ")
		}
	}
}

func levelToString(lvl level) string {
	switch lvl {
	case levelDebug:
		return "DEBUG"
	case levelInfo:
		return "INFO"
	case levelWarn:
		return "WARN"
	case levelError:
		return "ERROR"
	case levelCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

func formatToEnum(s string) format {
	switch s {
	case "json":
		return formatJSON
	case "text", "":
		return formatText
	case "human":
		return formatHuman
	default:
		panic(fmt.Errorf("error unknown log format type: %s", s))
	}
}
