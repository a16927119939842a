// Line sinks for the command line tool
package sink

import (
	"fmt"
	"os"
	"sync"
)

// Append-only file receiving serialized records
type File struct {
	mutex sync.Mutex
	file  *os.File
	path  string
}

// Opens (creating if needed) path for appending
func NewFile(path string) (sink *File, err error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
	if err != nil {
		err = fmt.Errorf("failed to open output file: %w", err)
		return
	}

	sink = &File{
		file: file,
		path: path,
	}
	return
}

// Writes all of line, retrying short writes
func (sink *File) Write(line []byte) (written int, err error) {
	sink.mutex.Lock()
	defer sink.mutex.Unlock()

	if sink.file == nil {
		err = fmt.Errorf("output file %s is closed", sink.path)
		return
	}

	data := line
	for len(data) > 0 {
		var n int
		n, err = sink.file.Write(data)
		written += n
		if err != nil {
			err = fmt.Errorf("failed writing to %s: %w", sink.path, err)
			return
		}
		data = data[n:]
	}
	return
}

// Flushes and closes the file. Later writes fail.
func (sink *File) Close() (err error) {
	sink.mutex.Lock()
	defer sink.mutex.Unlock()

	if sink.file == nil {
		return
	}
	err = sink.file.Sync()
	if err == nil {
		err = sink.file.Close()
	} else {
		sink.file.Close()
	}
	sink.file = nil
	return
}
