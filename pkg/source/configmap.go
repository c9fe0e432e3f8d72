// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package source

import (
	"context"
	"fmt"
	"strings"

	k8serrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/NVIDIA/suggestd/pkg/defaults"
	apperrors "github.com/NVIDIA/suggestd/pkg/errors"
	"github.com/NVIDIA/suggestd/pkg/k8s/client"
	"github.com/NVIDIA/suggestd/pkg/serializer"
	"github.com/NVIDIA/suggestd/pkg/suggestion"
)

// ConfigMapSource reads the data document from a ConfigMap key.
type ConfigMapSource struct {
	namespace string
	name      string
	key       string
	client    client.Interface
}

// NewConfigMapSource creates a ConfigMap source. An empty key selects
// DataFileName. A nil client is resolved through client.GetKubeClient on
// first load.
func NewConfigMapSource(namespace, name, key string, c client.Interface) *ConfigMapSource {
	if key == "" {
		key = DataFileName
	}
	return &ConfigMapSource{namespace: namespace, name: name, key: key, client: c}
}

func (s *ConfigMapSource) String() string {
	return fmt.Sprintf("%s%s/%s#%s", ConfigMapURIScheme, s.namespace, s.name, s.key)
}

// Load reads the key and decodes it.
func (s *ConfigMapSource) Load(ctx context.Context) ([]suggestion.Input, error) {
	if s.client == nil {
		c, _, err := client.GetKubeClient()
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeUnavailable, "failed to get kubernetes client", err)
		}
		s.client = c
	}

	readCtx, cancel := context.WithTimeout(ctx, defaults.ConfigMapReadTimeout)
	defer cancel()

	cm, err := s.client.CoreV1().ConfigMaps(s.namespace).Get(readCtx, s.name, metav1.GetOptions{})
	if err != nil {
		code := apperrors.ErrCodeUnavailable
		if k8serrors.IsNotFound(err) {
			code = apperrors.ErrCodeNotFound
		}
		return nil, apperrors.WrapWithContext(code, "failed to get ConfigMap", err,
			map[string]any{"namespace": s.namespace, "name": s.name})
	}

	if data, ok := cm.Data[s.key]; ok {
		return Decode(serializer.FormatFromPath(s.key), []byte(data), s.String())
	}
	if data, ok := cm.BinaryData[s.key]; ok {
		return Decode(serializer.FormatFromPath(s.key), data, s.String())
	}

	return nil, apperrors.NewWithContext(apperrors.ErrCodeNotFound, "ConfigMap key not found",
		map[string]any{"namespace": s.namespace, "name": s.name, "key": s.key})
}

// ParseConfigMapURI parses cm://namespace/name[#key].
func ParseConfigMapURI(uri string) (namespace, name, key string, err error) {
	if !strings.HasPrefix(uri, ConfigMapURIScheme) {
		return "", "", "", apperrors.New(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid ConfigMap URI: must start with %s", ConfigMapURIScheme))
	}

	path := strings.TrimPrefix(uri, ConfigMapURIScheme)
	if i := strings.IndexByte(path, '#'); i >= 0 {
		path, key = path[:i], strings.TrimSpace(path[i+1:])
	}

	parts := strings.SplitN(path, "/", 2)
	if len(parts) != 2 {
		return "", "", "", apperrors.New(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid ConfigMap URI format: expected %snamespace/name, got %s", ConfigMapURIScheme, uri))
	}

	namespace = strings.TrimSpace(parts[0])
	name = strings.TrimSpace(parts[1])

	if namespace == "" {
		return "", "", "", apperrors.New(apperrors.ErrCodeInvalidRequest, "invalid ConfigMap URI: namespace cannot be empty")
	}
	if name == "" || strings.Contains(name, "/") {
		return "", "", "", apperrors.New(apperrors.ErrCodeInvalidRequest, "invalid ConfigMap URI: invalid name")
	}

	return namespace, name, key, nil
}
