package protocol

import "testing"

func TestBuildProgramEnableCmd(t *testing.T) {
	cmd := BuildProgramEnableCmd()

	want := Command{0xAC, 0x53, 0x00, 0x00}
	if cmd != want {
		t.Errorf("instruction = % 02X, want % 02X", cmd[:], want[:])
	}

	if cmd[1] != EnableEcho {
		t.Errorf("second byte = 0x%02X, want the enable echo 0x%02X", cmd[1], EnableEcho)
	}
}

func TestBuildChipEraseCmd(t *testing.T) {
	cmd := BuildChipEraseCmd()

	want := Command{0xAC, 0x80, 0x00, 0x00}
	if cmd != want {
		t.Errorf("instruction = % 02X, want % 02X", cmd[:], want[:])
	}
}

func TestBuildReadSignatureCmd(t *testing.T) {
	tests := []struct {
		name  string
		index byte
		want  Command
	}{
		{name: "byte 0", index: 0, want: Command{0x30, 0x00, 0x00, 0x00}},
		{name: "byte 1", index: 1, want: Command{0x30, 0x00, 0x01, 0x00}},
		{name: "byte 2", index: 2, want: Command{0x30, 0x00, 0x02, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := BuildReadSignatureCmd(tt.index)
			if cmd != tt.want {
				t.Errorf("instruction = % 02X, want % 02X", cmd[:], tt.want[:])
			}
		})
	}
}

func TestBuildFuseReadCmds(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		want Command
	}{
		{name: "low fuse", cmd: BuildReadFuseLowCmd(), want: Command{0x50, 0x00, 0x00, 0x00}},
		{name: "high fuse", cmd: BuildReadFuseHighCmd(), want: Command{0x58, 0x08, 0x00, 0x00}},
		{name: "lock bits", cmd: BuildReadLockBitsCmd(), want: Command{0x58, 0x00, 0x00, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.cmd != tt.want {
				t.Errorf("instruction = % 02X, want % 02X", tt.cmd[:], tt.want[:])
			}
		})
	}
}

func TestBuildFuseWriteCmds(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		want Command
	}{
		{name: "low fuse", cmd: BuildWriteFuseLowCmd(0x7A), want: Command{0xAC, 0xA0, 0x00, 0x7A}},
		{name: "high fuse", cmd: BuildWriteFuseHighCmd(0xFF), want: Command{0xAC, 0xA8, 0x00, 0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.cmd != tt.want {
				t.Errorf("instruction = % 02X, want % 02X", tt.cmd[:], tt.want[:])
			}
		})
	}
}

func TestBuildLoadPageCmds(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		want Command
	}{
		{name: "low byte of word 0", cmd: BuildLoadPageLowCmd(0, 0x09), want: Command{0x40, 0x00, 0x00, 0x09}},
		{name: "high byte of word 0", cmd: BuildLoadPageHighCmd(0, 0xC0), want: Command{0x48, 0x00, 0x00, 0xC0}},
		{name: "low byte of word 15", cmd: BuildLoadPageLowCmd(15, 0xFF), want: Command{0x40, 0x00, 0x0F, 0xFF}},
		{name: "high byte of word 15", cmd: BuildLoadPageHighCmd(15, 0xFF), want: Command{0x48, 0x00, 0x0F, 0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.cmd != tt.want {
				t.Errorf("instruction = % 02X, want % 02X", tt.cmd[:], tt.want[:])
			}
		})
	}
}

func TestBuildWritePageCmd(t *testing.T) {
	tests := []struct {
		name     string
		wordAddr uint16
		want     Command
	}{
		{name: "first page", wordAddr: 0x0000, want: Command{0x4C, 0x00, 0x00, 0x00}},
		{name: "second page", wordAddr: 0x0010, want: Command{0x4C, 0x00, 0x10, 0x00}},
		{name: "high address bits", wordAddr: 0x01F0, want: Command{0x4C, 0x01, 0xF0, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := BuildWritePageCmd(tt.wordAddr)
			if cmd != tt.want {
				t.Errorf("instruction = % 02X, want % 02X", cmd[:], tt.want[:])
			}
		})
	}
}

func TestBuildReadFlashCmd(t *testing.T) {
	tests := []struct {
		name     string
		byteAddr uint16
		want     Command
	}{
		{name: "even address reads low byte", byteAddr: 0x0000, want: Command{0x20, 0x00, 0x00, 0x00}},
		{name: "odd address reads high byte", byteAddr: 0x0001, want: Command{0x28, 0x00, 0x00, 0x00}},
		{name: "even address in second page", byteAddr: 0x0020, want: Command{0x20, 0x00, 0x10, 0x00}},
		{name: "odd address at end of flash", byteAddr: 0x03FF, want: Command{0x28, 0x01, 0xFF, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := BuildReadFlashCmd(tt.byteAddr)
			if cmd != tt.want {
				t.Errorf("instruction = % 02X, want % 02X", cmd[:], tt.want[:])
			}
		})
	}
}

func BenchmarkBuildReadFlashCmd(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = BuildReadFlashCmd(uint16(i & 0x03FF))
	}
}
