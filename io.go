package uvatlas

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

func toLittleByteOrder(v interface{}) ([]byte, error) {
	b := bytes.NewBuffer(nil)
	if e := binary.Write(b, binary.LittleEndian, v); e != nil {
		return nil, e
	}
	return b.Bytes(), nil
}

func writeLittleByte(wt io.Writer, v interface{}) error {
	buf, err := toLittleByteOrder(v)
	if err != nil {
		return fmt.Errorf("encode %T failed: %w", v, err)
	}
	if len(buf) == 0 {
		return nil
	}
	_, err = wt.Write(buf)
	return err
}

func readLittleByte(rd io.Reader, v interface{}) error {
	return binary.Read(rd, binary.LittleEndian, v)
}

// maxBufferLen 读取时单个缓冲允许的最大元素数
const maxBufferLen = 1 << 28

func readLength(rd io.Reader) (int, error) {
	var size uint32
	if err := readLittleByte(rd, &size); err != nil {
		return 0, err
	}
	if size > maxBufferLen {
		return 0, fmt.Errorf("buffer length %d too large", size)
	}
	return int(size), nil
}

// ResultMarshal 序列化 PackedResult
func ResultMarshal(wt io.Writer, r *PackedResult) error {
	if _, err := wt.Write([]byte(RESULT_SIGNATURE)); err != nil {
		return err
	}
	if err := writeLittleByte(wt, V2); err != nil {
		return err
	}
	if r.Faces.Cols != 3 && r.Faces.Rows != 0 {
		return fmt.Errorf("faces must have 3 columns, got %d", r.Faces.Cols)
	}
	if r.UV.Cols != 2 && r.UV.Rows != 0 {
		return fmt.Errorf("uv must have 2 columns, got %d", r.UV.Cols)
	}
	steps := []interface{}{
		uint32(len(r.Remap)), r.Remap,
		uint32(r.Faces.Rows), r.Faces.Data,
		uint32(r.UV.Rows), r.UV.Data,
	}
	for _, v := range steps {
		if err := writeLittleByte(wt, v); err != nil {
			return fmt.Errorf("write result failed: %w", err)
		}
	}
	// V2 新增每面图表编号与统计
	hasCharts := uint8(0)
	if r.FaceCharts != nil {
		hasCharts = 1
	}
	if err := writeLittleByte(wt, hasCharts); err != nil {
		return err
	}
	if hasCharts == 1 {
		if err := writeLittleByte(wt, r.FaceCharts); err != nil {
			return fmt.Errorf("write face charts failed: %w", err)
		}
	}
	if err := writeLittleByte(wt, uint32(r.Charts)); err != nil {
		return err
	}
	return writeLittleByte(wt, r.Stretch)
}

// ResultUnMarshal 反序列化 PackedResult, 兼容 V1
func ResultUnMarshal(rd io.Reader) (*PackedResult, error) {
	sig := make([]byte, len(RESULT_SIGNATURE))
	if _, err := io.ReadFull(rd, sig); err != nil {
		return nil, fmt.Errorf("read signature failed: %w", err)
	}
	if string(sig) != RESULT_SIGNATURE {
		return nil, errors.New("not a uvatlas result file")
	}
	var v uint32
	if err := readLittleByte(rd, &v); err != nil {
		return nil, err
	}
	if v < V1 || v > V2 {
		return nil, fmt.Errorf("unsupported result version %d", v)
	}

	r := &PackedResult{}
	n, err := readLength(rd)
	if err != nil {
		return nil, fmt.Errorf("read remap len failed: %w", err)
	}
	r.Remap = make([]int32, n)
	if err := readLittleByte(rd, r.Remap); err != nil {
		return nil, fmt.Errorf("read remap failed: %w", err)
	}
	if n, err = readLength(rd); err != nil {
		return nil, fmt.Errorf("read faces len failed: %w", err)
	}
	r.Faces = NewIntMatrix(n, 3)
	if err := readLittleByte(rd, r.Faces.Data); err != nil {
		return nil, fmt.Errorf("read faces failed: %w", err)
	}
	if n, err = readLength(rd); err != nil {
		return nil, fmt.Errorf("read uv len failed: %w", err)
	}
	r.UV = NewFloatMatrix(n, 2)
	if err := readLittleByte(rd, r.UV.Data); err != nil {
		return nil, fmt.Errorf("read uv failed: %w", err)
	}
	if v < V2 {
		return r, nil
	}

	var hasCharts uint8
	if err := readLittleByte(rd, &hasCharts); err != nil {
		return nil, err
	}
	if hasCharts == 1 {
		r.FaceCharts = make([]int32, r.Faces.Rows)
		if err := readLittleByte(rd, r.FaceCharts); err != nil {
			return nil, fmt.Errorf("read face charts failed: %w", err)
		}
	}
	var charts uint32
	if err := readLittleByte(rd, &charts); err != nil {
		return nil, err
	}
	r.Charts = int(charts)
	if err := readLittleByte(rd, &r.Stretch); err != nil {
		return nil, err
	}
	return r, nil
}

func ResultReadFrom(path string) (*PackedResult, error) {
	f, e := os.Open(path)
	if e != nil {
		return nil, e
	}
	defer f.Close()
	return ResultUnMarshal(f)
}

func ResultWriteTo(path string, r *PackedResult) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}
	f, e := os.Create(path)
	if e != nil {
		return e
	}
	defer f.Close()
	return ResultMarshal(f, r)
}
