/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package viperutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

const Prefix = "VIPERUTIL"

type testSlice struct {
	Inner struct {
		Slice []string
	}
}

func TestEnvSlice(t *testing.T) {
	envVar := "VIPERUTIL_INNER_SLICE"
	envVal := "[a, b, c]"
	os.Setenv(envVar, envVal)
	defer os.Unsetenv(envVar)
	config := viper.New()
	config.SetEnvPrefix(Prefix)
	config.AutomaticEnv()
	replacer := strings.NewReplacer(".", "_")
	config.SetEnvKeyReplacer(replacer)
	config.SetConfigType("yaml")

	data := "---\nInner:\n    Slice: [d,e,f]"

	err := config.ReadConfig(bytes.NewReader([]byte(data)))
	if err != nil {
		t.Fatalf("Error reading %s plugin config: %s", Prefix, err)
	}

	var uconf testSlice

	err = EnhancedExactUnmarshal(config, &uconf)
	if err != nil {
		t.Fatalf("Failed to unmarshal with: %s", err)
	}

	expected := []string{"a", "b", "c"}
	if !reflect.DeepEqual(uconf.Inner.Slice, expected) {
		t.Fatalf("Did not get back the right slice, expected: %v got %v", expected, uconf.Inner.Slice)
	}
}

type testByteSize struct {
	Inner struct {
		ByteSize uint32
	}
}

func TestByteSize(t *testing.T) {
	config := viper.New()
	config.SetConfigType("yaml")

	testCases := []struct {
		data     string
		expected uint32
	}{
		{"", 0},
		{"42", 42},
		{"42k", 42 * 1024},
		{"42kb", 42 * 1024},
		{"42K", 42 * 1024},
		{"42 KB", 42 * 1024},
		{"42m", 42 * 1024 * 1024},
		{"42MB", 42 * 1024 * 1024},
		{"3g", 3 * 1024 * 1024 * 1024},
		{"3 GB", 3 * 1024 * 1024 * 1024},
	}

	for _, tc := range testCases {
		t.Run(tc.data, func(t *testing.T) {
			data := fmt.Sprintf("---\nInner:\n    ByteSize: %s", tc.data)
			err := config.ReadConfig(bytes.NewReader([]byte(data)))
			require.NoError(t, err)
			var uconf testByteSize
			err = EnhancedExactUnmarshal(config, &uconf)
			require.NoError(t, err)
			require.Equal(t, tc.expected, uconf.Inner.ByteSize)
		})
	}
}

func TestByteSizeOverflow(t *testing.T) {
	config := viper.New()
	config.SetConfigType("yaml")

	data := "---\nInner:\n    ByteSize: 4GB"
	err := config.ReadConfig(bytes.NewReader([]byte(data)))
	require.NoError(t, err)
	var uconf testByteSize
	err = EnhancedExactUnmarshal(config, &uconf)
	require.Error(t, err)
}

type stringFromFileConfig struct {
	Inner struct {
		Single string
	}
}

func TestStringNotFromFile(t *testing.T) {
	expectedValue := "expected_value"
	yaml := fmt.Sprintf("---\nInner:\n  Single: %s\n", expectedValue)

	config := viper.New()
	config.SetConfigType("yaml")
	require.NoError(t, config.ReadConfig(bytes.NewReader([]byte(yaml))))

	var uconf stringFromFileConfig
	require.NoError(t, EnhancedExactUnmarshal(config, &uconf))
	require.Equal(t, expectedValue, uconf.Inner.Single)
}

func TestStringFromFile(t *testing.T) {
	expectedValue := "this is the text in the file"

	fileName := filepath.Join(t.TempDir(), "single")
	require.NoError(t, os.WriteFile(fileName, []byte(expectedValue), 0o644))

	yaml := fmt.Sprintf("---\nInner:\n  Single:\n    File: %s", fileName)

	config := viper.New()
	config.SetConfigType("yaml")
	require.NoError(t, config.ReadConfig(bytes.NewReader([]byte(yaml))))

	var uconf stringFromFileConfig
	require.NoError(t, EnhancedExactUnmarshal(config, &uconf))
	require.Equal(t, expectedValue, uconf.Inner.Single)
}

func TestStringFromFileNotSpecified(t *testing.T) {
	yaml := "---\nInner:\n  Single:\n    File:\n"

	config := viper.New()
	config.SetConfigType("yaml")
	require.NoError(t, config.ReadConfig(bytes.NewReader([]byte(yaml))))

	var uconf stringFromFileConfig
	require.Error(t, EnhancedExactUnmarshal(config, &uconf))
}

func TestStringFromFileEnv(t *testing.T) {
	expectedValue := "this is the text in the file"

	fileName := filepath.Join(t.TempDir(), "single")
	require.NoError(t, os.WriteFile(fileName, []byte(expectedValue), 0o644))

	testCases := []struct {
		name string
		data string
	}{
		{"Override", "---\nInner:\n  Single:\n    File: wrong_file"},
		{"NoFileElement", "---\nInner:\n  Single:\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			envVar := "VIPERUTIL_INNER_SINGLE_FILE"
			os.Setenv(envVar, fileName)
			defer os.Unsetenv(envVar)
			config := viper.New()
			config.SetEnvPrefix(Prefix)
			config.AutomaticEnv()
			config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
			config.SetConfigType("yaml")
			require.NoError(t, config.ReadConfig(bytes.NewReader([]byte(tc.data))))

			var uconf stringFromFileConfig
			require.NoError(t, EnhancedExactUnmarshal(config, &uconf))
			require.Equal(t, expectedValue, uconf.Inner.Single)
		})
	}
}

type hexConfig struct {
	Withdrawals struct {
		OutputScript []byte
		Timeout      time.Duration
	}
}

func TestHexBytesAndDuration(t *testing.T) {
	yaml := "---\nWithdrawals:\n  OutputScript: \"0x76a914\"\n  Timeout: 3s\n"

	config := viper.New()
	config.SetConfigType("yaml")
	require.NoError(t, config.ReadConfig(bytes.NewReader([]byte(yaml))))

	var uconf hexConfig
	require.NoError(t, EnhancedExactUnmarshal(config, &uconf))
	require.Equal(t, []byte{0x76, 0xa9, 0x14}, uconf.Withdrawals.OutputScript)
	require.Equal(t, 3*time.Second, uconf.Withdrawals.Timeout)

	config = viper.New()
	config.SetConfigType("yaml")
	require.NoError(t, config.ReadConfig(bytes.NewReader([]byte("---\nWithdrawals:\n  OutputScript: \"0xzz\"\n"))))
	err := EnhancedExactUnmarshal(config, &uconf)
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid hex value '0xzz'")
}

func TestExtraneousKeysRejected(t *testing.T) {
	config := viper.New()
	config.SetConfigType("yaml")
	require.NoError(t, config.ReadConfig(bytes.NewReader([]byte("---\nInner:\n  Single: a\n  Unknown: b\n"))))

	var uconf stringFromFileConfig
	require.Error(t, EnhancedExactUnmarshal(config, &uconf))
}

func TestConfigParser(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "drive.yaml"), []byte("Inner:\n  Single: from_file\n"), 0o644))

	p := New()
	p.SetConfigName("drive")
	p.AddConfigPaths(filepath.Join(dir, "missing"), dir)
	require.NoError(t, p.ReadInConfig())
	require.Equal(t, filepath.Join(dir, "drive.yaml"), p.ConfigFileUsed())

	var uconf stringFromFileConfig
	require.NoError(t, p.EnhancedExactUnmarshal(&uconf))
	require.Equal(t, "from_file", uconf.Inner.Single)

	os.Setenv("DRIVE_INNER_SINGLE", "from_env")
	defer os.Unsetenv("DRIVE_INNER_SINGLE")
	require.NoError(t, p.EnhancedExactUnmarshal(&uconf))
	require.Equal(t, "from_env", uconf.Inner.Single)

	require.EqualError(t, p.EnhancedExactUnmarshal(uconf), "supplied output argument must be a pointer to a struct but is not pointer")
}

func TestConfigPaths(t *testing.T) {
	os.Setenv(ConfigPathEnv, "/tmp/drive-config")
	defer os.Unsetenv(ConfigPathEnv)
	require.Equal(t, []string{"/tmp/drive-config", ".", "/etc/dash/drive"}, ConfigPaths())
}
