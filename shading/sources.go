package shading

const vertexSource = `#version 330

layout(location = 0) in vec3 position;
layout(location = 1) in vec3 color;
layout(location = 2) in float size;
layout(location = 3) in float life;

uniform mat4 uModelView;
uniform mat4 uProjection;
uniform float uParticleSize;
uniform float uTime;
uniform float uPointScale;

out vec3 vColor;
out float vLife;

void main() {
    vColor = color;
    vLife = life;
    vec4 mvPosition = uModelView * vec4(position, 1.0);
    gl_PointSize = size * uParticleSize * (uPointScale / -mvPosition.z);
    gl_Position = uProjection * mvPosition;
}
`

const fragmentSource = `#version 330

in vec3 vColor;
in float vLife;

uniform float uMaskRadius;
uniform float uAlphaScale;

out vec4 finalColor;

void main() {
    if (length(gl_PointCoord - vec2(0.5, 0.5)) > uMaskRadius) discard;
    finalColor = vec4(vColor, vLife * uAlphaScale);
}
`
