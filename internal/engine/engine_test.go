package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypeFromString(t *testing.T) {
	require.Equal(t, DeviceCPU, TypeFromString("CPU"))
	require.Equal(t, DeviceCPU, TypeFromString(" cpu "))
	require.Equal(t, DeviceCUDA, TypeFromString("cuda"))
	require.Equal(t, DeviceNone, TypeFromString("quantum"))
}

func TestDeviceTypeString(t *testing.T) {
	for _, d := range []DeviceType{DeviceCPU, DeviceCUDA, DeviceOpenCL} {
		require.Equal(t, d, TypeFromString(d.String()))
	}
	require.Equal(t, "NONE", DeviceNone.String())
}
