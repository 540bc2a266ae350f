package xconf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/omeyang/xdiag/pkg/util/xfile"
)

// filePerm 写回配置文件的权限
const filePerm = 0o600

// koanfConfig 是 Config 接口的 koanf 实现。
type koanfConfig struct {
	mu     sync.RWMutex
	saveMu sync.Mutex
	k      *koanf.Koanf
	path   string
	format Format
	opts   *Options
}

// New 从文件路径创建配置实例。
// 根据文件扩展名自动检测格式（.yaml/.yml 或 .json）。文件不存在是错误。
func New(path string, opts ...Option) (Config, error) {
	return open(path, false, opts)
}

// Open 与 New 相同，但文件不存在时创建空配置，首次 Save 时生成文件。
func Open(path string, opts ...Option) (Config, error) {
	return open(path, true, opts)
}

func open(path string, allowMissing bool, opts []Option) (Config, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	path, err := xfile.SanitizePath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	format, err := detectFormat(path)
	if err != nil {
		return nil, err
	}

	options := applyOptions(opts)
	k := koanf.New(options.Delim)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := loadData(k, data, format); err != nil {
			return nil, err
		}
	case allowMissing && errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	return &koanfConfig{k: k, path: path, format: format, opts: options}, nil
}

// NewFromBytes 从字节数据创建配置实例，需要显式指定格式。
// 空数据创建空配置。这样的配置只存在于内存中。
func NewFromBytes(data []byte, format Format, opts ...Option) (Config, error) {
	if !isValidFormat(format) {
		return nil, ErrUnsupportedFormat
	}

	options := applyOptions(opts)
	k := koanf.New(options.Delim)
	if len(data) > 0 {
		if err := loadData(k, data, format); err != nil {
			return nil, err
		}
	}
	return &koanfConfig{k: k, format: format, opts: options}, nil
}

func applyOptions(opts []Option) *Options {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// Client 返回底层的 koanf 实例。
func (c *koanfConfig) Client() *koanf.Koanf {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.k
}

// Unmarshal 将指定路径的配置反序列化到目标结构体。
func (c *koanfConfig) Unmarshal(path string, target any) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := c.k.UnmarshalWithConf(path, target, koanf.UnmarshalConf{Tag: c.opts.Tag}); err != nil {
		return fmt.Errorf("%w: %w", ErrUnmarshalFailed, err)
	}
	return nil
}

// Set 修改单个配置项。
func (c *koanfConfig) Set(key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.k.Set(key, value)
}

// Save 把当前配置序列化后以 "写临时文件 + rename" 的方式写回。
func (c *koanfConfig) Save() error {
	if c.path == "" {
		return ErrNotPersistent
	}
	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	c.mu.RLock()
	data, err := c.k.Marshal(parserFor(c.format))
	c.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	dir := filepath.Dir(c.path)
	if err := xfile.EnsureDir(c.path); err != nil {
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(c.path)+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	tmpName := tmp.Name()
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr, os.Chmod(tmpName, filePerm)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	return nil
}

// Reload 重新加载配置文件。解析失败时保留旧配置。
func (c *koanfConfig) Reload() error {
	if c.path == "" {
		return ErrNotPersistent
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	newK := koanf.New(c.opts.Delim)
	if err := loadData(newK, data, c.format); err != nil {
		return err
	}

	c.mu.Lock()
	c.k = newK
	c.mu.Unlock()
	return nil
}

// Path 返回配置文件路径。
func (c *koanfConfig) Path() string {
	return c.path
}

// Format 返回配置格式。
func (c *koanfConfig) Format() Format {
	return c.format
}

// =============================================================================
// 内部辅助函数
// =============================================================================

// detectFormat 根据文件扩展名检测配置格式。
func detectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %s", ErrUnsupportedFormat, ext)
	}
}

// isValidFormat 检查格式是否有效。
func isValidFormat(format Format) bool {
	return format == FormatYAML || format == FormatJSON
}

// parserFor 返回格式对应的解析器，未知格式返回 nil。
func parserFor(format Format) koanf.Parser {
	switch format {
	case FormatYAML:
		return yaml.Parser()
	case FormatJSON:
		return json.Parser()
	default:
		return nil
	}
}

// loadData 加载数据到 koanf 实例。
func loadData(k *koanf.Koanf, data []byte, format Format) error {
	parser := parserFor(format)
	if parser == nil {
		return ErrUnsupportedFormat
	}
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	return nil
}
