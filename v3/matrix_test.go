package v3

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatrix(Te *testing.T) {
	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	require.NoError(Te, err)
	assert.Equal(Te, 2, A.NVecs())
	assert.Equal(Te, [3]float64{4, 5, 6}, A.Vec(1))

	_, err = NewMatrix([]float64{1, 2})
	require.Error(Te, err)

	E, err := NewMatrix(nil)
	require.NoError(Te, err)
	assert.Equal(Te, 0, E.NVecs())
	fmt.Println("empty:", E)
}

func TestTranslate(Te *testing.T) {
	A, err := NewMatrix([]float64{0, 0, 0, 1, 1, 1, -1, 2, 0.5})
	require.NoError(Te, err)
	B := A.Copy()
	B.Translate([3]float64{10, 0, -1})
	assert.Equal(Te, [3]float64{10, 0, -1}, B.Vec(0))
	assert.Equal(Te, [3]float64{11, 1, 0}, B.Vec(1))
	assert.Equal(Te, [3]float64{9, 2, -0.5}, B.Vec(2))
	//the copy is deep
	assert.Equal(Te, [3]float64{0, 0, 0}, A.Vec(0))
}

func TestSetMatrix(Te *testing.T) {
	A, _ := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	B, _ := NewMatrix([]float64{7, 8, 9})
	F := Zeros(3)
	F.SetMatrix(0, A)
	F.SetMatrix(2, B)
	assert.Equal(Te, [3]float64{7, 8, 9}, F.Vec(2))
	F.SetVec(1, [3]float64{100, 5, 6})
	assert.Equal(Te, 100.0, F.At(1, 0))
	assert.InDelta(Te, 96.0, F.Distance(1, A, 1), 1e-12)
	fmt.Println(F)
}

func TestShapePanics(Te *testing.T) {
	A := Zeros(2)
	assert.Panics(Te, func() { A.Vec(2) })
	assert.Panics(Te, func() { A.AddVec(Zeros(3), [3]float64{}) })
	assert.Panics(Te, func() { A.SetMatrix(1, Zeros(2)) })
}
